package actions

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/chazuruo/wfdispatch/internal/dispatcher"
)

// Output is one step output.
type Output struct {
	Name  string
	Value string
}

// ResultOutputs lists the step outputs of a dispatch. workflowId is always
// present; the run fields only when known.
func ResultOutputs(res *dispatcher.Result) []Output {
	if res == nil || res.WorkflowID == 0 {
		return nil
	}
	outs := []Output{{Name: "workflowId", Value: strconv.FormatInt(res.WorkflowID, 10)}}
	if res.RunID != 0 {
		outs = append(outs, Output{Name: "runId", Value: strconv.FormatInt(res.RunID, 10)})
	}
	if res.RunURL != "" {
		outs = append(outs, Output{Name: "runUrl", Value: res.RunURL})
	}
	if res.Conclusion != "" {
		outs = append(outs, Output{Name: "conclusion", Value: res.Conclusion})
	}
	return outs
}

// WriteOutputs appends outs to the runner's output file at path.
// Multi-line values use the heredoc form with a random delimiter.
func WriteOutputs(path string, outs []Output) error {
	if path == "" || len(outs) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	return writeOutputs(f, outs)
}

// writeOutputs writes outs to w and closes it. A failed close is reported
// when the write itself succeeded.
func writeOutputs(w io.WriteCloser, outs []Output) (err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", cerr)
		}
	}()

	var b strings.Builder
	for _, o := range outs {
		b.WriteString(formatOutput(o))
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}

func formatOutput(o Output) string {
	if !strings.ContainsAny(o.Value, "\r\n") {
		return o.Name + "=" + o.Value + "\n"
	}
	delim := "ghadelimiter_" + uuid.NewString()
	return fmt.Sprintf("%s<<%s\n%s\n%s\n", o.Name, delim, o.Value, delim)
}
