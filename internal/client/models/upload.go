package models

// PresignRequest asks the server for a storage upload form.
type PresignRequest struct {
	Filename string `json:"filename"`
	FileType string `json:"file_type"`
	Size     int64  `json:"size"`
}

// PresignedUpload is a presigned POST form: the file must be posted to URL
// together with Fields, then finalized with Key.
type PresignedUpload struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
	Key    string            `json:"s3_key"`
}

// FinalizeRequest confirms a completed upload and starts ingestion.
type FinalizeRequest struct {
	Key      string `json:"s3_key"`
	Filename string `json:"filename"`
	FileType string `json:"file_type"`
	Size     int64  `json:"size"`
}

// Tokens is a pair of JWTs issued by the auth endpoint.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
