package vectorstore

import "jobmarket/internal/domain"

// Storage holds title vectors and supports similarity search.
type Storage = domain.VectorStore
