package app

import (
	"fmt"
	"log/slog"
	"time"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	metricsv "k8s.io/metrics/pkg/client/clientset/versioned"

	"github.com/skillcoder/demo-app/internal/adapters/outbound/k8s"
	"github.com/skillcoder/demo-app/internal/config"
)

const kubeRequestTimeout = 5 * time.Second

// newKubeConfig loads KUBECONFIG/KUBERNETES_MASTER or the in-cluster config.
// Every request is bounded by kubeRequestTimeout.
func newKubeConfig(cfg *config.Config) (*rest.Config, error) {
	kubeConfig, err := clientcmd.BuildConfigFromFlags(cfg.KubeMaster, cfg.KubeConfig)
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	kubeConfig.Timeout = kubeRequestTimeout

	return kubeConfig, nil
}

// newKubeAdapter builds the pod lookup for this pod.
func newKubeAdapter(logger *slog.Logger, cfg *config.Config) (*k8s.Adapter, error) {
	kubeConfig, err := newKubeConfig(cfg)
	if err != nil {
		return nil, err
	}

	clientset, err := kubernetes.NewForConfig(kubeConfig)
	if err != nil {
		return nil, fmt.Errorf("create clientset: %w", err)
	}

	metricsClientset, err := metricsv.NewForConfig(kubeConfig)
	if err != nil {
		return nil, fmt.Errorf("create metrics clientset: %w", err)
	}

	return k8s.New(
		logger.With("component", "kubernetes-api"),
		clientset,
		metricsClientset,
		cfg.PodNamespace,
		cfg.PodName,
	), nil
}
