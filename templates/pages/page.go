// Package pages holds the standalone documents served to browsers.
package pages

// StylesheetPath is where the bundled feed stylesheet is served.
const StylesheetPath = "/static/feed.css"
