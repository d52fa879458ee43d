package domain

// FileRef describes one file attached to a routing request.
type FileRef struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

// RequestDescriptor is the sole input contract the routing core exposes to
// its caller. Model holds the caller-specified model identifier, which is
// honored unchanged for tools on the routing exclusion list.
type RequestDescriptor struct {
	Tool   string
	Prompt string
	Files  []FileRef
	Model  string
}

func (r RequestDescriptor) FileCount() int {
	return len(r.Files)
}

func (r RequestDescriptor) TotalFileBytes() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.SizeBytes
	}
	return total
}

// MultiFile reports whether the request carries multi-file context.
func (r RequestDescriptor) MultiFile() bool {
	return len(r.Files) > 1
}
