package k8s_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
	metricsv1beta1 "k8s.io/metrics/pkg/apis/metrics/v1beta1"
	metricsfake "k8s.io/metrics/pkg/client/clientset/versioned/fake"

	"github.com/skillcoder/demo-app/internal/adapters/outbound/k8s"
	"github.com/skillcoder/demo-app/internal/logic/podinfo"
)

var podStart = time.Date(2026, 10, 19, 7, 30, 0, 0, time.UTC)

func testPod() *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "demo-7c9f",
			Namespace: "apps",
			Labels:    map[string]string{"app": "demo"},
		},
		Spec: corev1.PodSpec{
			NodeName: "node-1",
			Containers: []corev1.Container{
				{
					Name: "app",
					Resources: corev1.ResourceRequirements{
						Limits: corev1.ResourceList{corev1.ResourceMemory: resource.MustParse("128Mi")},
					},
				},
				{
					Name: "sidecar",
					Resources: corev1.ResourceRequirements{
						Limits: corev1.ResourceList{corev1.ResourceMemory: resource.MustParse("64Mi")},
					},
				},
			},
		},
		Status: corev1.PodStatus{
			Phase:     corev1.PodRunning,
			PodIP:     "10.1.2.3",
			StartTime: &metav1.Time{Time: podStart},
		},
	}
}

// The typed fake for pod metrics resolves "pods" rather than "podmetricses",
// so the object is served by a reactor instead of the tracker.
func withPodMetrics(client *metricsfake.Clientset, usage ...string) {
	podMetrics := &metricsv1beta1.PodMetrics{
		ObjectMeta: metav1.ObjectMeta{Name: "demo-7c9f", Namespace: "apps"},
	}

	for i, u := range usage {
		podMetrics.Containers = append(podMetrics.Containers, metricsv1beta1.ContainerMetrics{
			Name:  "c" + string(rune('0'+i)),
			Usage: corev1.ResourceList{corev1.ResourceMemory: resource.MustParse(u)},
		})
	}

	client.PrependReactor("get", "pods", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, podMetrics, nil
	})
}

func TestAdapter_GetPodDetailsQuery(t *testing.T) {
	t.Parallel()

	logger := slog.Default()

	t.Run("pod with metrics", func(t *testing.T) {
		t.Parallel()

		metricsClient := metricsfake.NewSimpleClientset()
		withPodMetrics(metricsClient, "40Mi", "24Mi")

		adapter := k8s.New(logger, fake.NewClientset(testPod()), metricsClient, "apps", "demo-7c9f")

		got, err := adapter.GetPodDetailsQuery(t.Context())
		require.NoError(t, err)

		require.Equal(t, "demo-7c9f", got.Name)
		require.Equal(t, "apps", got.Namespace)
		require.Equal(t, "node-1", got.NodeName)
		require.Equal(t, "Running", got.Phase)
		require.Equal(t, "10.1.2.3", got.PodIP)
		require.Equal(t, map[string]string{"app": "demo"}, got.Labels)
		require.NotNil(t, got.StartTime)
		require.True(t, got.StartTime.Equal(podStart))
		require.Equal(t, "192Mi", got.MemoryLimit.String())
		require.Equal(t, "64Mi", got.MemoryUsage.String())

		raw, err := json.Marshal(got)
		require.NoError(t, err)
		require.Contains(t, string(raw), `"memoryLimit":"192Mi"`)
		require.Contains(t, string(raw), `"memoryUsage":"64Mi"`)
	})

	t.Run("metrics unavailable leaves usage empty", func(t *testing.T) {
		t.Parallel()

		adapter := k8s.New(logger, fake.NewClientset(testPod()), metricsfake.NewSimpleClientset(), "apps", "demo-7c9f")

		got, err := adapter.GetPodDetailsQuery(t.Context())
		require.NoError(t, err)
		require.Nil(t, got.MemoryUsage)
		require.NotNil(t, got.MemoryLimit)
	})

	t.Run("pod without limits", func(t *testing.T) {
		t.Parallel()

		pod := testPod()
		for i := range pod.Spec.Containers {
			pod.Spec.Containers[i].Resources = corev1.ResourceRequirements{}
		}

		adapter := k8s.New(logger, fake.NewClientset(pod), metricsfake.NewSimpleClientset(), "apps", "demo-7c9f")

		got, err := adapter.GetPodDetailsQuery(t.Context())
		require.NoError(t, err)
		require.Nil(t, got.MemoryLimit)
	})

	t.Run("missing pod is not found", func(t *testing.T) {
		t.Parallel()

		adapter := k8s.New(logger, fake.NewClientset(), metricsfake.NewSimpleClientset(), "apps", "demo-7c9f")

		_, err := adapter.GetPodDetailsQuery(t.Context())
		require.Error(t, err)
		require.True(t, podinfo.IsNotFound(err))
	})
}

func TestAdapter_Pinger(t *testing.T) {
	t.Parallel()

	adapter := k8s.New(slog.Default(), fake.NewClientset(), metricsfake.NewSimpleClientset(), "apps", "demo-7c9f")

	require.Equal(t, "kubernetes-api", adapter.Name())
	require.NoError(t, adapter.Ping(t.Context()))
	require.False(t, adapter.PingerCritical())
	require.False(t, adapter.PingerReadyCritical())
	require.Equal(t, 2*time.Second, adapter.PingerTimeout())
}

func TestAdapter_PingHonorsContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	clientset := fake.NewClientset()
	clientset.PrependReactor("get", "version", func(k8stesting.Action) (bool, runtime.Object, error) {
		<-release

		return true, nil, nil
	})

	t.Cleanup(func() { close(release) })

	adapter := k8s.New(slog.Default(), clientset, metricsfake.NewSimpleClientset(), "apps", "demo-7c9f")

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := adapter.Ping(ctx)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), adapter.PingerTimeout())
}

func TestAdapter_PingReportsServerError(t *testing.T) {
	t.Parallel()

	clientset := fake.NewClientset()
	clientset.PrependReactor("get", "version", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("connection refused")
	})

	adapter := k8s.New(slog.Default(), clientset, metricsfake.NewSimpleClientset(), "apps", "demo-7c9f")

	err := adapter.Ping(t.Context())
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection refused")
}
