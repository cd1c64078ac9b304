package memory_test

import (
	"github.com/sveniik/battletrack/internal/storage"
	"github.com/sveniik/battletrack/internal/storage/memory"
)

var _ storage.Backend = (*memory.Backend)(nil)
