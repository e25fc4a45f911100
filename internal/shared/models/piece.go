package models

// Piece locates one piece inside the concatenated content stream.
type Piece struct {
	Index  int
	Offset int64
	Length int64
	Hash   Hash
}
