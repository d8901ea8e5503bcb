package models

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Container describes the job container or a service container. Image is
// the only mandatory field.
type Container struct {
	Image       string       `yaml:"image" validate:"required,image_ref"`
	Credentials *Credentials `yaml:"credentials,omitempty"`
	Env         Env          `yaml:"env,omitempty"`
	Ports       []Port       `yaml:"ports,omitempty"`
	Volumes     []Volume     `yaml:"volumes,omitempty"`
	Options     string       `yaml:"options,omitempty"`
	Hostname    string       `yaml:"hostname,omitempty"`
}

func NewContainer(image string) Container {
	return Container{Image: image}
}

func (c Container) WithCredentials(username, password string) Container {
	c.Credentials = &Credentials{Username: username, Password: password}
	return c
}

func (c Container) AddEnv(key string, v any) Container {
	c.Env = c.Env.With(key, scalar(v))
	return c
}

func (c Container) AddPort(p Port) Container {
	c.Ports = appendClone(c.Ports, p)
	return c
}

func (c Container) AddVolume(v Volume) Container {
	c.Volumes = appendClone(c.Volumes, v)
	return c
}

func (c Container) WithOptions(options string) Container {
	c.Options = options
	return c
}

func (c Container) WithHostname(hostname string) Container {
	c.Hostname = hostname
	return c
}

type Credentials struct {
	Username string `yaml:"username" validate:"required"`
	Password string `yaml:"password" validate:"required"`
}

// Port is either a port number or a mapping string such as "8080:80".
type Port struct {
	Number uint16
	Name   string
}

func PortNumber(n uint16) Port {
	return Port{Number: n}
}

func PortName(name string) Port {
	return Port{Name: name}
}

func (p Port) MarshalYAML() (interface{}, error) {
	if p.Name != "" {
		return p.Name, nil
	}
	return int(p.Number), nil
}

func (p *Port) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: a port must be a scalar", node.Line)
	}
	if node.ShortTag() == "!!int" {
		n, err := strconv.ParseUint(node.Value, 0, 16)
		if err != nil {
			return fmt.Errorf("line %d: invalid port %s: %w", node.Line, node.Value, err)
		}
		*p = Port{Number: uint16(n)}
		return nil
	}
	*p = Port{Name: node.Value}
	return nil
}

// Volume mounts Source at Destination inside the container. It is written
// in the `source:destination` form.
type Volume struct {
	Source      string
	Destination string
}

func NewVolume(source, destination string) Volume {
	return Volume{Source: source, Destination: destination}
}

// ParseVolume reads the `source:destination` form.
func ParseVolume(s string) (Volume, error) {
	source, destination, ok := strings.Cut(s, ":")
	if !ok || source == "" || destination == "" || strings.Contains(destination, ":") {
		return Volume{}, fmt.Errorf("invalid volume %q: expected source:destination", s)
	}
	return Volume{Source: source, Destination: destination}, nil
}

func (v Volume) String() string {
	return v.Source + ":" + v.Destination
}

func (v Volume) MarshalYAML() (interface{}, error) {
	return v.String(), nil
}

func (v *Volume) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseVolume(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*v = parsed
	return nil
}
