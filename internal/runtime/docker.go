package runtime

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
)

// callTimeout bounds individual engine calls so a wedged daemon cannot
// hang a request forever.
const callTimeout = 30 * time.Second

// DockerRuntime implements ContainerRuntime against the Docker Engine
// API. One instance is constructed at process start and shared; the SDK
// client is safe for concurrent use.
type DockerRuntime struct {
	cli *client.Client
}

func NewDockerRuntime() (*DockerRuntime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}
	return &DockerRuntime{cli: cli}, nil
}

func (d *DockerRuntime) Close() error {
	return d.cli.Close()
}

func (d *DockerRuntime) CreateOrReplace(ctx context.Context, spec ContainerSpec) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	// Replace semantics: a stale container with this name may survive a
	// crashed previous create.
	err := d.cli.ContainerRemove(ctx, spec.Name, container.RemoveOptions{Force: true})
	if err != nil && !errdefs.IsNotFound(err) {
		return fmt.Errorf("removing stale container %s: %w", spec.Name, err)
	}

	exposed := nat.Port(strconv.Itoa(spec.ContainerPort) + "/tcp")
	cfg := &container.Config{
		Image: spec.Image,
		Env:   spec.Env,
		ExposedPorts: nat.PortSet{
			exposed: struct{}{},
		},
	}
	hostCfg := &container.HostConfig{
		PortBindings: nat.PortMap{
			exposed: []nat.PortBinding{{HostPort: strconv.Itoa(spec.HostPort)}},
		},
		Binds: []string{spec.VolumeName + ":" + spec.VolumeTarget},
	}

	_, err = d.cli.ContainerCreate(ctx, cfg, hostCfg, nil, nil, spec.Name)
	if err != nil {
		return fmt.Errorf("creating container %s: %w", spec.Name, err)
	}
	return nil
}

func (d *DockerRuntime) Start(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	if err := d.cli.ContainerStart(ctx, name, container.StartOptions{}); err != nil {
		return fmt.Errorf("starting container %s: %w", name, err)
	}
	return nil
}

func (d *DockerRuntime) StopAndRemove(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	if err := d.cli.ContainerStop(ctx, name, container.StopOptions{}); err != nil && !errdefs.IsNotFound(err) {
		return fmt.Errorf("stopping container %s: %w", name, err)
	}
	if err := d.cli.ContainerRemove(ctx, name, container.RemoveOptions{Force: true}); err != nil && !errdefs.IsNotFound(err) {
		return fmt.Errorf("removing container %s: %w", name, err)
	}
	return nil
}

func (d *DockerRuntime) ConnectNetwork(ctx context.Context, network, name string) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	if err := d.cli.NetworkConnect(ctx, network, name, nil); err != nil {
		return fmt.Errorf("connecting %s to network %s: %w", name, network, err)
	}
	return nil
}

func (d *DockerRuntime) RuntimeID(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	info, err := d.cli.ContainerInspect(ctx, name)
	if err != nil {
		return "", fmt.Errorf("inspecting container %s: %w", name, err)
	}
	id := info.ID
	if len(id) > 12 {
		id = id[:12]
	}
	return id, nil
}

func (d *DockerRuntime) ListPublishedPorts(ctx context.Context) ([]int, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	containers, err := d.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}

	var ports []int
	for _, c := range containers {
		for _, p := range c.Ports {
			if p.PublicPort > 0 {
				ports = append(ports, int(p.PublicPort))
			}
		}
	}
	return ports, nil
}

func (d *DockerRuntime) Exec(ctx context.Context, containerName string, argv []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	exec, err := d.cli.ContainerExecCreate(ctx, containerName, container.ExecOptions{
		Cmd:          argv,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return "", fmt.Errorf("creating exec in %s: %w", containerName, err)
	}

	resp, err := d.cli.ContainerExecAttach(ctx, exec.ID, container.ExecStartOptions{})
	if err != nil {
		return "", fmt.Errorf("attaching exec in %s: %w", containerName, err)
	}
	defer resp.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, resp.Reader); err != nil {
		return "", fmt.Errorf("reading exec output from %s: %w", containerName, err)
	}
	return stdout.String(), nil
}
