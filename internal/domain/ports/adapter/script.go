package adapter

import "context"

// ScriptClient is the port for the text-generation collaborator. It takes a
// system instruction and a user prompt and returns the raw assistant text;
// parsing and validation of the structured reply happen in the usecase layer.
type ScriptClient interface {
	// Provider identifies the backing service for logs and metric labels.
	Provider() string

	Complete(ctx context.Context, system, user string) (string, error)
}
