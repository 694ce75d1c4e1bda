package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

var ErrUnknownNetwork = errors.New("unknown network")

// Network holds the endpoints of one Oasis network
type Network struct {
	GRPC     string `yaml:"grpc"`
	Explorer string `yaml:"explorer"`
	Monitor  string `yaml:"monitor"`
}

// Networks maps network names to endpoints
type Networks map[string]Network

type networksFile struct {
	Networks map[string]Network `yaml:"networks"`
}

// DefaultNetworks returns the built-in mainnet and testnet endpoints
func DefaultNetworks() Networks {
	return Networks{
		"mainnet": {
			GRPC:     "https://grpc.oasis.dev",
			Explorer: "https://api.oasisscan.com/mainnet",
			Monitor:  "https://monitor.oasis.dev",
		},
		"testnet": {
			GRPC:     "https://testnet.grpc.oasis.dev",
			Explorer: "https://api.oasisscan.com/testnet",
			Monitor:  "https://monitor.oasis.dev/api/testnet",
		},
	}
}

// LoadNetworks returns the default networks with the entries of the YAML
// file at path merged over them. An empty path yields the defaults.
func LoadNetworks(path string) (Networks, error) {
	networks := DefaultNetworks()
	if path == "" {
		return networks, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read networks file: %w", err)
	}

	var parsed networksFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse networks file: %w", err)
	}

	for name, src := range parsed.Networks {
		dst := networks[name]
		Merge(&dst, src)
		networks[name] = dst
	}
	if err := networks.Validate(); err != nil {
		return nil, err
	}
	return networks, nil
}

// Merge overwrites the endpoints of dst that src sets
func Merge(dst *Network, src Network) {
	if src.GRPC != "" {
		dst.GRPC = src.GRPC
	}
	if src.Explorer != "" {
		dst.Explorer = src.Explorer
	}
	if src.Monitor != "" {
		dst.Monitor = src.Monitor
	}
}

// Validate checks that every configured endpoint is an absolute URL
func (n Networks) Validate() error {
	for _, name := range n.Names() {
		net := n[name]
		for field, raw := range map[string]string{"grpc": net.GRPC, "explorer": net.Explorer, "monitor": net.Monitor} {
			if raw == "" {
				continue
			}
			u, err := url.Parse(raw)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("network %s: invalid %s url %q", name, field, raw)
			}
		}
	}
	return nil
}

// Get returns the endpoints of the named network
func (n Networks) Get(name string) (Network, error) {
	net, ok := n[name]
	if !ok {
		return Network{}, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}
	return net, nil
}

// Names returns the network names in sorted order
func (n Networks) Names() []string {
	names := make([]string, 0, len(n))
	for name := range n {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Origins returns the deduplicated origins of every endpoint: all gRPC
// endpoints first, then explorers, then monitors.
func (n Networks) Origins() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(raw string) {
		if raw == "" {
			return
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return
		}
		origin := u.Scheme + "://" + u.Host
		if _, ok := seen[origin]; ok {
			return
		}
		seen[origin] = struct{}{}
		out = append(out, origin)
	}

	names := n.Names()
	// mainnet endpoints lead the list
	for i, name := range names {
		if name == "mainnet" {
			names = append([]string{name}, append(names[:i:i], names[i+1:]...)...)
			break
		}
	}
	for _, name := range names {
		add(n[name].GRPC)
	}
	for _, name := range names {
		add(n[name].Explorer)
	}
	for _, name := range names {
		add(n[name].Monitor)
	}
	return out
}
