package gormstorage_test

import (
	"github.com/sveniik/battletrack/internal/storage"
	gormstorage "github.com/sveniik/battletrack/internal/storage/gorm"
)

var _ storage.Backend = (*gormstorage.Backend)(nil)
