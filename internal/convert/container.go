// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/enex2md/internal/container"
	"github.com/pdiddy/enex2md/pkg/types"
)

// ContainerConverter converts by piping each note through a pandoc container
// image. It depends on a container.Runtime (docker or podman) injected at
// construction time.
type ContainerConverter struct {
	runtime container.Runtime
	image   string
	format  string
}

// NewContainerConverter creates a converter that runs image with the given
// runtime. It verifies that the image exists locally before returning.
func NewContainerConverter(rt container.Runtime, image, format string) (*ContainerConverter, error) {
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("pandoc image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerConverter{runtime: rt, image: image, format: format}, nil
}

func (c *ContainerConverter) Name() string { return string(types.EngineContainer) }

// Convert pipes html through the container and returns its stdout.
func (c *ContainerConverter) Convert(ctx context.Context, html string) (string, error) {
	var out bytes.Buffer
	if err := c.runtime.Run(ctx, c.image, pandocArgs(c.format), strings.NewReader(todoMarkers(html)), &out); err != nil {
		return "", fmt.Errorf("converting with %s: %w", c.image, err)
	}
	return out.String(), nil
}
