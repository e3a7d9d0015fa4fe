package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/containerd/errdefs"
	"github.com/docker/cli/cli/connhelper"
	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
)

// ErrContainerNotFound is returned when looking up a container by name finds
// nothing running.
var ErrContainerNotFound = errors.New("container not found")

// Client wraps the Docker Engine API for the container lifecycle commands.
type Client struct {
	docker *client.Client
	logger *slog.Logger
}

// NewClient connects to the Docker daemon. DOCKER_HOST is honoured,
// including ssh:// hosts via the CLI connection helper.
func NewClient(logger *slog.Logger) (*Client, error) {
	var clientOpts []client.Opt

	dockerHost := os.Getenv("DOCKER_HOST")

	if strings.HasPrefix(dockerHost, "ssh://") {
		helper, err := connhelper.GetConnectionHelper(dockerHost)
		if err != nil {
			return nil, fmt.Errorf("failed to get connection helper: %w", err)
		}

		httpClient := &http.Client{
			Transport: &http.Transport{
				DialContext: helper.Dialer,
			},
		}

		clientOpts = append(clientOpts,
			client.WithHTTPClient(httpClient),
			client.WithHost(helper.Host),
			client.WithDialContext(helper.Dialer),
			client.WithAPIVersionNegotiation(),
		)
	} else {
		clientOpts = append(clientOpts, client.FromEnv, client.WithAPIVersionNegotiation())
	}

	cli, err := client.NewClientWithOpts(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	return &Client{
		docker: cli,
		logger: logger,
	}, nil
}

// Close releases the underlying API client.
func (c *Client) Close() error {
	err := c.docker.Close()
	if err != nil {
		return fmt.Errorf("failed to close docker client: %w", err)
	}

	return nil
}

// BuildOptions describes an image build.
type BuildOptions struct {
	ContextDir string
	Tags       []string
	BuildArgs  map[string]*string
}

// BuildImage builds the context directory into an image carrying every
// requested tag, streaming engine output to stderr.
func (c *Client) BuildImage(ctx context.Context, options BuildOptions) error {
	buildContext, err := archive.TarWithOptions(options.ContextDir, &archive.TarOptions{})
	if err != nil {
		return fmt.Errorf("failed to tar build context: %w", err)
	}
	defer func() { _ = buildContext.Close() }()

	response, err := c.docker.ImageBuild(ctx, buildContext, build.ImageBuildOptions{
		Tags:      options.Tags,
		BuildArgs: options.BuildArgs,
		Remove:    true,
	})
	if err != nil {
		return fmt.Errorf("failed to build image: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	err = jsonmessage.DisplayJSONMessagesStream(response.Body, os.Stderr, 0, false, nil)
	if err != nil {
		return fmt.Errorf("image build failed: %w", err)
	}

	return nil
}

// Login verifies the registry credentials with the daemon.
func (c *Client) Login(ctx context.Context, auth registry.AuthConfig) error {
	_, err := c.docker.RegistryLogin(ctx, auth)
	if err != nil {
		return fmt.Errorf("failed to log in to registry %q: %w", auth.ServerAddress, err)
	}

	return nil
}

// Push uploads the tagged image to its registry.
func (c *Client) Push(ctx context.Context, ref string, auth registry.AuthConfig) error {
	encoded, err := registry.EncodeAuthConfig(auth)
	if err != nil {
		return fmt.Errorf("failed to encode registry auth: %w", err)
	}

	reader, err := c.docker.ImagePush(ctx, ref, image.PushOptions{RegistryAuth: encoded})
	if err != nil {
		return fmt.Errorf("failed to initiate push of %q: %w", ref, err)
	}
	defer func() { _ = reader.Close() }()

	err = jsonmessage.DisplayJSONMessagesStream(reader, os.Stderr, 0, false, nil)
	if err != nil {
		return fmt.Errorf("image push failed: %w", err)
	}

	return nil
}

// Pull downloads the tagged image from its registry.
func (c *Client) Pull(ctx context.Context, ref string, auth registry.AuthConfig) error {
	encoded, err := registry.EncodeAuthConfig(auth)
	if err != nil {
		return fmt.Errorf("failed to encode registry auth: %w", err)
	}

	reader, err := c.docker.ImagePull(ctx, ref, image.PullOptions{RegistryAuth: encoded})
	if err != nil {
		return fmt.Errorf("failed to initiate pull of %q: %w", ref, err)
	}
	defer func() { _ = reader.Close() }()

	err = jsonmessage.DisplayJSONMessagesStream(reader, os.Stderr, 0, false, nil)
	if err != nil {
		return fmt.Errorf("image pull failed: %w", err)
	}

	return nil
}

// Run executes the descriptor. Interactive mode attaches the caller's
// stdin/stdout until the container exits; daemon and server modes return as
// soon as the container has started (server callers stream logs themselves).
func (c *Client) Run(ctx context.Context, descriptor Descriptor) (string, error) {
	interactive := descriptor.Mode == ModeInteractive

	exposed := nat.PortSet{}
	bindings := nat.PortMap{}

	for _, port := range descriptor.Ports {
		containerPort, err := nat.NewPort("tcp", port.Container)
		if err != nil {
			return "", fmt.Errorf("invalid container port %q: %w", port.Container, err)
		}

		exposed[containerPort] = struct{}{}
		bindings[containerPort] = []nat.PortBinding{{HostPort: port.Host}}
	}

	response, err := c.docker.ContainerCreate(
		ctx,
		&container.Config{
			Image:        descriptor.Image,
			Cmd:          descriptor.Command,
			Env:          descriptor.EnvSlice(),
			User:         descriptor.User,
			WorkingDir:   descriptor.WorkDir,
			Tty:          interactive,
			OpenStdin:    interactive,
			StdinOnce:    interactive,
			AttachStdin:  interactive,
			AttachStdout: interactive,
			AttachStderr: interactive,
			ExposedPorts: exposed,
		},
		&container.HostConfig{
			Binds:        descriptor.Binds(),
			PortBindings: bindings,
			AutoRemove:   interactive,
		},
		nil, nil,
		descriptor.Name,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create container %q: %w", descriptor.Name, err)
	}

	containerID := response.ID

	c.logger.Debug("container.create", "id", containerID, "name", descriptor.Name, "mode", descriptor.Mode.String())

	if !interactive {
		err = c.docker.ContainerStart(ctx, containerID, container.StartOptions{})
		if err != nil {
			return "", fmt.Errorf("failed to start container: %w", err)
		}

		return containerID, nil
	}

	attached, err := c.docker.ContainerAttach(ctx, containerID, container.AttachOptions{
		Stream: true,
		Stdin:  true,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to attach to container: %w", err)
	}
	defer attached.Close()

	// the waiter must be registered before start: AutoRemove can reap the
	// container before a late ContainerWait call sees it
	statusCh, errCh := c.docker.ContainerWait(ctx, containerID, container.WaitConditionNextExit)

	err = c.docker.ContainerStart(ctx, containerID, container.StartOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to start container: %w", err)
	}

	go func() { _, _ = io.Copy(attached.Conn, os.Stdin) }()

	// Tty is enabled, so stdout and stderr arrive as one raw stream.
	_, _ = io.Copy(os.Stdout, attached.Reader)

	select {
	case err := <-errCh:
		return containerID, fmt.Errorf("failed to wait for container: %w", err)
	case status := <-statusCh:
		if status.StatusCode != 0 {
			return containerID, fmt.Errorf("container exited with status %d", status.StatusCode)
		}

		return containerID, nil
	}
}

// StreamLogs follows the container's output to the given writers.
func (c *Client) StreamLogs(ctx context.Context, containerID string, stdout, stderr io.Writer) error {
	logs, err := c.docker.ContainerLogs(ctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to get container logs: %w", err)
	}
	defer func() { _ = logs.Close() }()

	_, err = stdcopy.StdCopy(stdout, stderr, logs)
	if err != nil {
		return fmt.Errorf("failed to copy logs: %w", err)
	}

	return nil
}

// FindByName returns the ID of a running container whose name matches.
// Returns ErrContainerNotFound when nothing is running under that name,
// rather than handing an empty identifier to a later attach.
func (c *Client) FindByName(ctx context.Context, name string) (string, error) {
	containers, err := c.docker.ContainerList(ctx, container.ListOptions{
		Filters: filters.NewArgs(filters.Arg("name", name)),
	})
	if err != nil {
		if errdefs.IsNotFound(err) {
			return "", ErrContainerNotFound
		}

		return "", fmt.Errorf("failed to list containers: %w", err)
	}

	if len(containers) == 0 {
		return "", fmt.Errorf("%w: %s", ErrContainerNotFound, name)
	}

	return containers[0].ID, nil
}

// AttachShell opens an interactive shell inside a running container.
func (c *Client) AttachShell(ctx context.Context, containerID string, command []string) error {
	exec, err := c.docker.ContainerExecCreate(ctx, containerID, container.ExecOptions{
		Cmd:          command,
		Tty:          true,
		AttachStdin:  true,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create exec: %w", err)
	}

	attached, err := c.docker.ContainerExecAttach(ctx, exec.ID, container.ExecAttachOptions{Tty: true})
	if err != nil {
		return fmt.Errorf("failed to attach to exec: %w", err)
	}
	defer attached.Close()

	go func() { _, _ = io.Copy(attached.Conn, os.Stdin) }()

	_, _ = io.Copy(os.Stdout, attached.Reader)

	return nil
}

