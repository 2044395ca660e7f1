package podinfo

import (
	"time"

	"k8s.io/apimachinery/pkg/api/resource"
)

// Memory is the process memory snapshot in bytes.
type Memory struct {
	RSS        uint64 `json:"rss"`
	HeapTotal  uint64 `json:"heapTotal"`
	HeapUsed   uint64 `json:"heapUsed"`
	StackInUse uint64 `json:"stackInUse"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"numGC"`
}

// PodInfo is built fresh for every request and never stored.
// RuntimeVersion keeps the nodeVersion wire key that dashboards already consume.
type PodInfo struct {
	Hostname       string  `json:"hostname"`
	Platform       string  `json:"platform"`
	RuntimeVersion string  `json:"nodeVersion"`
	Environment    string  `json:"environment"`
	Timestamp      string  `json:"timestamp"`
	UptimeSeconds  float64 `json:"uptime"`
	Memory         Memory  `json:"memory"`
	PodName        string  `json:"podName"`
	PodNamespace   string  `json:"podNamespace"`
	PodIP          string  `json:"podIP"`
}

// HealthStatus is the /health body.
type HealthStatus struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// ReadyStatus is the /ready body.
type ReadyStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Identity is what the downward API tells the process about itself.
type Identity struct {
	Environment  string
	PodName      string
	PodNamespace string
	PodIP        string
}

// PodDetails is the pod as seen by the Kubernetes API.
type PodDetails struct {
	Name        string             `json:"name"`
	Namespace   string             `json:"namespace"`
	NodeName    string             `json:"nodeName"`
	Phase       string             `json:"phase"`
	PodIP       string             `json:"podIP"`
	Labels      map[string]string  `json:"labels"`
	StartTime   *time.Time         `json:"startTime,omitempty"`
	MemoryLimit *resource.Quantity `json:"memoryLimit,omitempty"`
	MemoryUsage *resource.Quantity `json:"memoryUsage,omitempty"`
}
