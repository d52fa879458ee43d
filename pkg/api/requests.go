package api

// RouteRequest is the body of POST /v1/route: the tool invocation the caller
// is about to make, described just enough to route it.
type RouteRequest struct {
	Tool   string `json:"tool" binding:"required"`
	Prompt string `json:"prompt"`

	// Files attached to the request context; paths only, the service never
	// reads them.
	Files []FileRef `json:"files,omitempty" binding:"omitempty,dive"`

	// RequestedTier raises the minimum tier; it never lowers the analyzer's
	// recommendation.
	RequestedTier  string `json:"requested_tier,omitempty" binding:"omitempty,oneof=free junior senior executive"`
	Specialization string `json:"specialization,omitempty" binding:"omitempty,oneof=general coding reasoning vision conversation"`

	// Model pins an explicit model and bypasses routing entirely.
	Model string `json:"model,omitempty"`
}

type FileRef struct {
	Path      string `json:"path" binding:"required"`
	SizeBytes int64  `json:"size_bytes,omitempty" binding:"omitempty,min=0"`
}
