package model

// File is an uploaded or generated document stored as a database row and
// served by ID. Extension decides the Content-Type on the way out.
type File struct {
	ID        int `gorm:"primaryKey" json:"id"`
	Name      string
	Content   []byte
	Extension string
}
