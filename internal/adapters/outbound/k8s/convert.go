package k8s

import (
	"context"
	"log/slog"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metricsv1beta1 "k8s.io/metrics/pkg/apis/metrics/v1beta1"

	"github.com/skillcoder/demo-app/internal/logic/podinfo"
)

func toDomainPodDetails(pod *corev1.Pod) *podinfo.PodDetails {
	out := &podinfo.PodDetails{
		Name:      pod.Name,
		Namespace: pod.Namespace,
		NodeName:  pod.Spec.NodeName,
		Phase:     string(pod.Status.Phase),
		PodIP:     pod.Status.PodIP,
		Labels:    pod.Labels,
	}

	if pod.Status.StartTime != nil {
		startTime := pod.Status.StartTime.UTC()
		out.StartTime = &startTime
	}

	limits := make([]*resource.Quantity, 0, len(pod.Spec.Containers))
	for i := range pod.Spec.Containers {
		if limit, ok := pod.Spec.Containers[i].Resources.Limits[corev1.ResourceMemory]; ok {
			limits = append(limits, &limit)
		}
	}

	out.MemoryLimit = sumQuantities(limits)

	return out
}

// toMemoryUsage sums container working set memory. Nil means no container reported usage.
func toMemoryUsage(
	ctx context.Context,
	logger *slog.Logger,
	podMetrics *metricsv1beta1.PodMetrics,
) *resource.Quantity {
	usages := make([]*resource.Quantity, 0, len(podMetrics.Containers))

	for i := range podMetrics.Containers {
		container := &podMetrics.Containers[i]

		if _, ok := container.Usage[corev1.ResourceMemory]; !ok {
			logger.DebugContext(ctx, "container reports no memory usage",
				"pod", podMetrics.Name,
				"container", container.Name,
			)

			continue
		}

		usages = append(usages, container.Usage.Memory())
	}

	return sumQuantities(usages)
}

func sumQuantities(quantities []*resource.Quantity) *resource.Quantity {
	if len(quantities) == 0 {
		return nil
	}

	total := resource.NewQuantity(0, resource.BinarySI)
	for _, q := range quantities {
		total.Add(*q)
	}

	return total
}
