package session

import (
	"bufio"
	"fmt"
	"io"

	"github.com/abhisek/pathwise/internal/practice"
)

// OutcomePrompt is printed before every outcome read.
const OutcomePrompt = "Enter outcome [correct/c, incorrect/i, skip/s, quit/q]:"

// StdIO adapts a line reader and a writer to the session IO.
type StdIO struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewStdIO creates a StdIO. Pass an existing scanner through NewStdIOScanner
// when the input is shared with another line-based loop.
func NewStdIO(in io.Reader, out io.Writer) *StdIO {
	return NewStdIOScanner(bufio.NewScanner(in), out)
}

// NewStdIOScanner creates a StdIO reading lines from sc.
func NewStdIOScanner(sc *bufio.Scanner, out io.Writer) *StdIO {
	return &StdIO{in: sc, out: out}
}

func (s *StdIO) WriteLine(line string) {
	fmt.Fprintln(s.out, line)
}

// ReadOutcome prints the prompt and reads one line. It returns io.EOF when
// the input is exhausted.
func (s *StdIO) ReadOutcome(_ practice.LearningItem) (string, error) {
	s.WriteLine(OutcomePrompt)
	return ReadLine(s.in)
}

// ReadLine reads the next line from sc, returning io.EOF at end of input.
func ReadLine(sc *bufio.Scanner) (string, error) {
	if sc.Scan() {
		return sc.Text(), nil
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
