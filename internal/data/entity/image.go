package entity

// Image is a gallery picture uploaded from the admin console. Ref is the
// blob store reference, never a client-facing URL.
type Image struct {
	BaseSimple
	Ref        string `db:"ref"`
	UploadedBy string `db:"uploaded_by"`
}
