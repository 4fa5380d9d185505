// Package transporters holds log destinations.
package transporters

import (
	"encoding/json"
	"io"
	"os"

	"tweetfeed/pkg/log"
)

// Stdout writes line-delimited JSON entries.
type Stdout struct {
	writer io.Writer
}

// NewStdout writes to os.Stdout.
func NewStdout() *Stdout {
	return &Stdout{writer: os.Stdout}
}

// NewStdoutWithWriter writes to w.
func NewStdoutWithWriter(w io.Writer) *Stdout {
	return &Stdout{writer: w}
}

func (s *Stdout) Name() string { return "stdout" }

func (s *Stdout) Write(entry log.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = s.writer.Write(append(data, '\n'))
	return err
}

func (s *Stdout) Close() error { return nil }
