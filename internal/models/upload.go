package models

// StorageBackend identifies which storage tier served an upload
type StorageBackend string

const (
	BackendVercelBlob    StorageBackend = "Vercel Blob"
	BackendObjectStorage StorageBackend = "Object Storage"
	BackendImgBB         StorageBackend = "ImgBB"
	BackendCloudinary    StorageBackend = "Cloudinary"
	BackendInlineData    StorageBackend = "Base64 (local only)"
)

// UploadResult is produced once per upload and not retained server-side
type UploadResult struct {
	URL     string
	Backend StorageBackend
}

// UploadResponse is returned after a successful receipt upload
type UploadResponse struct {
	Success  bool           `json:"success"`
	URL      string         `json:"url"`
	Filename string         `json:"filename"`
	Size     int64          `json:"size"`
	Type     string         `json:"type"`
	Storage  StorageBackend `json:"storage"`
}
