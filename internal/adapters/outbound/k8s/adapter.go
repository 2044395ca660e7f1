package k8s

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	metricsv "k8s.io/metrics/pkg/client/clientset/versioned"

	"github.com/skillcoder/demo-app/internal/logic/podinfo"
)

const pingTimeout = 2 * time.Second

// Adapter reads the current pod from the Kubernetes API.
type Adapter struct {
	logger           *slog.Logger
	clientset        kubernetes.Interface
	metricsClientset metricsv.Interface
	namespace        string
	name             string
}

// New creates a K8s adapter bound to one pod.
func New(
	logger *slog.Logger,
	clientset kubernetes.Interface,
	metricsClientset metricsv.Interface,
	namespace,
	name string,
) *Adapter {
	return &Adapter{
		logger:           logger,
		clientset:        clientset,
		metricsClientset: metricsClientset,
		namespace:        namespace,
		name:             name,
	}
}

var _ podinfo.PodLookup = (*Adapter)(nil)

func (a *Adapter) GetPodDetailsQuery(ctx context.Context) (*podinfo.PodDetails, error) {
	pod, err := a.clientset.CoreV1().Pods(a.namespace).Get(ctx, a.name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, fmt.Errorf("get pod %s/%s: %w", a.namespace, a.name, errPodNotFound)
		}

		return nil, fmt.Errorf("get pod %s/%s: %w", a.namespace, a.name, err)
	}

	details := toDomainPodDetails(pod)

	podMetrics, err := a.metricsClientset.MetricsV1beta1().PodMetricses(a.namespace).Get(ctx, a.name, metav1.GetOptions{})
	if err != nil {
		// metrics-server is optional; the pod is still reported without usage
		a.logger.DebugContext(ctx, "pod metrics unavailable",
			"pod", a.name,
			"namespace", a.namespace,
			"reason", err,
		)

		return details, nil
	}

	details.MemoryUsage = toMemoryUsage(ctx, a.logger, podMetrics)

	return details, nil
}

// Name returns the pinger name.
func (a *Adapter) Name() string {
	return "kubernetes-api"
}

// Ping checks that the API server answers before ctx is done.
// ServerVersion takes no context; a hung call is left to the REST client timeout.
func (a *Adapter) Ping(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		_, err := a.clientset.Discovery().ServerVersion()
		errCh <- err
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("kubernetes server version: %w", ctx.Err())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("kubernetes server version: %w", err)
		}

		return nil
	}
}

// PingerCritical keeps probes green while the API server is unreachable; only /api/pod degrades.
func (a *Adapter) PingerCritical() bool {
	return false
}

func (a *Adapter) PingerReadyCritical() bool {
	return false
}

func (a *Adapter) PingerTimeout() time.Duration {
	return pingTimeout
}
