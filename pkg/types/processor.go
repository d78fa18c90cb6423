package types

import "context"

// ProcessorFunc transforms file content. Custom processors registered
// under a name are invoked by the "custom" action with the rule's
// processor_args. A processor must treat args as read-only and must not
// retain content after returning.
type ProcessorFunc func(ctx context.Context, content string, file FileEntry, args map[string]interface{}) (string, error)
