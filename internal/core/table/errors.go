package table

import "errors"

var (
	ErrTableExists     = errors.New("table already exists")
	ErrTableType       = errors.New("table has a different record type")
	ErrTableNotFound   = errors.New("table is not registered")
	ErrWrongStage      = errors.New("tables can only be created during initialization")
	ErrDuplicateRecord = errors.New("record already exists")
	ErrInvalidKey      = errors.New("invalid record key")
	ErrDecodeRecord    = errors.New("failed decoding record")
	ErrUnknownFormat   = errors.New("unknown table file format")
)
