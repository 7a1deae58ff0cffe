package session

import "github.com/pollaroo/pollaroo-go/pkg/apiclient"

// Fallback messages for failures that carry no server-provided text. Like the
// client's messages, they are shown to end users verbatim.
const (
	msgLoginFailed    = "Login failed. Please try again."
	msgRegisterFailed = "Registration failed. Please try again."
	msgUpdateFailed   = "Profile update failed. Please try again."
	msgLoadFailed     = "Could not load your profile."
)

// errMessage picks the user-facing text for a failed operation: the
// normalized message when the gateway client produced one, the fallback
// otherwise.
func errMessage(err error, fallback string) string {
	if apiErr, ok := apiclient.AsError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
