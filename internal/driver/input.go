package driver

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jacksmith/tm/internal/model"
	"golang.org/x/term"
)

// LineReader reads one line of user input after showing prompt.
// It returns io.EOF when input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// MaxLineBytes is the longest input line a buffered reader accepts.
const MaxLineBytes = 1024 * 1024

type bufferedReader struct {
	r     *bufio.Reader
	out   io.Writer
	limit int
}

// NewBufferedReader reads lines from r, writing prompts to out.
// Used for pipes, files and tests. Lines longer than MaxLineBytes are
// skipped and reported as a *model.ValidationError.
func NewBufferedReader(r io.Reader, out io.Writer) LineReader {
	return newBufferedReader(r, out, MaxLineBytes)
}

func newBufferedReader(r io.Reader, out io.Writer, limit int) *bufferedReader {
	return &bufferedReader{r: bufio.NewReaderSize(r, 64*1024), out: out, limit: limit}
}

func (s *bufferedReader) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(s.out, prompt)
	}

	var line []byte
	read, tooLong := 0, false
	for {
		chunk, err := s.r.ReadSlice('\n')
		read += len(chunk)
		if !tooLong {
			line = append(line, chunk...)
			if len(bytes.TrimRight(line, "\r\n")) > s.limit {
				tooLong, line = true, nil
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) {
			if read == 0 {
				return "", io.EOF
			}
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		break
	}

	if tooLong {
		return "", &model.ValidationError{
			Field:   "input",
			Message: fmt.Sprintf("line is longer than %d bytes and was skipped", s.limit),
		}
	}
	return strings.TrimRight(string(line), "\r\n"), nil
}

// TerminalReader reads lines from a raw-mode terminal with line editing and
// history. Output meant for the user should go through Writer so line
// endings are translated.
type TerminalReader struct {
	t *term.Terminal
}

// NewTerminalReader wraps rw, which must already be in raw mode.
func NewTerminalReader(rw io.ReadWriter) *TerminalReader {
	return &TerminalReader{t: term.NewTerminal(rw, "")}
}

// ReadLine implements LineReader.
func (r *TerminalReader) ReadLine(prompt string) (string, error) {
	r.t.SetPrompt(prompt)
	return r.t.ReadLine()
}

// Writer returns the terminal as an io.Writer.
func (r *TerminalReader) Writer() io.Writer {
	return r.t
}
