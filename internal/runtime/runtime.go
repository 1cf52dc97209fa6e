// Package runtime is the seam between the workspace orchestrator and the
// container engine. Everything the core needs from Docker goes through
// the ContainerRuntime interface so services can be tested against a
// fake and the real client can be swapped without touching callers.
package runtime

import "context"

// ContainerSpec describes a workspace container to create.
type ContainerSpec struct {
	Name          string
	Image         string
	Env           []string
	HostPort      int
	ContainerPort int

	// VolumeName is mounted at VolumeTarget inside the container.
	VolumeName   string
	VolumeTarget string
}

// ContainerRuntime is the container-engine boundary. All calls are
// synchronous; implementations must honor ctx cancellation.
type ContainerRuntime interface {
	// CreateOrReplace creates a container from spec, removing any
	// existing container with the same name first.
	CreateOrReplace(ctx context.Context, spec ContainerSpec) error

	// Start starts a created container by name.
	Start(ctx context.Context, name string) error

	// StopAndRemove stops a container and force-deletes it. Removing a
	// container that is already gone is not an error.
	StopAndRemove(ctx context.Context, name string) error

	// ConnectNetwork attaches a container to a named network so other
	// containers can reach it by name.
	ConnectNetwork(ctx context.Context, network, name string) error

	// RuntimeID returns the engine's id for a container (short form).
	RuntimeID(ctx context.Context, name string) (string, error)

	// ListPublishedPorts reports every host port currently published by
	// any container, running or not. Used to reconcile port allocation
	// with reality after crashes.
	ListPublishedPorts(ctx context.Context) ([]int, error)

	// Exec runs argv inside a named container and returns captured
	// stdout. The exec process is waited on; no zombies are left behind
	// on normal completion.
	Exec(ctx context.Context, containerName string, argv []string) (string, error)
}
