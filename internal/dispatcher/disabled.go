package dispatcher

import "strings"

// disabledSuffix ends the API message returned when dispatching a disabled
// workflow. The API exposes no error code for this case.
// TODO: switch to a structured check if GitHub ever adds an error code for disabled workflows.
const disabledSuffix = "a disabled workflow"

// IsDisabledWorkflowError reports whether message is the API's refusal to
// dispatch a disabled workflow.
func IsDisabledWorkflowError(message string) bool {
	return strings.HasSuffix(message, disabledSuffix)
}
