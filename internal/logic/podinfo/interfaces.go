package podinfo

import "context"

// PodLookup is the port for reading this pod from the cluster.
// Implementations are provided by adapters in the outbound layer.
type PodLookup interface {
	GetPodDetailsQuery(ctx context.Context) (*PodDetails, error)
}

type memoryReader interface {
	ReadMemory() Memory
}

// notFound is a private interface for checking "not found" errors
// without importing the adapter package.
type notFound interface {
	IsNotFound()
}
