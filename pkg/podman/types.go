package podman

import (
	"fmt"
	"time"
)

// Kind names a resource kind managed by the service.
type Kind string

// Resource kinds.
const (
	KindContainer Kind = "container"
	KindImage     Kind = "image"
	KindPod       Kind = "pod"
	KindNetwork   Kind = "network"
	KindVolume    Kind = "volume"
)

// ParseKind maps a kind name, as it appears in event and identity strings,
// onto its Kind. Unknown names fail with ErrUnsupportedKind.
func ParseKind(name string) (Kind, error) {
	switch Kind(name) {
	case KindContainer, KindImage, KindPod, KindNetwork, KindVolume:
		return Kind(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, name)
	}
}

// Identity uniquely identifies a remote resource. It is immutable after
// construction.
type Identity struct {
	Kind Kind
	ID   string
}

// String returns "kind/id".
func (i Identity) String() string {
	return string(i.Kind) + "/" + i.ID
}

// ListContainer is one entry of a container listing.
type ListContainer struct {
	ID        string            `json:"Id"`
	Names     []string          `json:"Names"`
	Image     string            `json:"Image"`
	ImageID   string            `json:"ImageID"`
	Command   []string          `json:"Command"`
	Created   time.Time         `json:"Created"`
	State     string            `json:"State"`
	Status    string            `json:"Status"`
	ExitCode  int               `json:"ExitCode"`
	Exited    bool              `json:"Exited"`
	ExitedAt  int64             `json:"ExitedAt"`
	StartedAt int64             `json:"StartedAt"`
	Labels    map[string]string `json:"Labels"`
	Pod       string            `json:"Pod"`
	PodName   string            `json:"PodName"`
	IsInfra   bool              `json:"IsInfra"`
	Ports     []PortMapping     `json:"Ports"`
	Mounts    []string          `json:"Mounts"`
	Networks  []string          `json:"Networks"`
}

// ContainerDetails is the full inspect payload of a container.
type ContainerDetails struct {
	ID              string            `json:"Id"`
	Name            string            `json:"Name"`
	Created         time.Time         `json:"Created"`
	Path            string            `json:"Path"`
	Args            []string          `json:"Args"`
	State           *ContainerState   `json:"State"`
	Image           string            `json:"Image"`
	ImageName       string            `json:"ImageName"`
	PodID           string            `json:"Pod"`
	RestartCount    int               `json:"RestartCount"`
	Driver          string            `json:"Driver"`
	MountLabel      string            `json:"MountLabel"`
	ProcessLabel    string            `json:"ProcessLabel"`
	HostnamePath    string            `json:"HostnamePath"`
	ResolvConfPath  string            `json:"ResolvConfPath"`
	Mounts          []ContainerMount  `json:"Mounts"`
	NetworkSettings *NetworkSettings  `json:"NetworkSettings"`
	Config          *ContainerConfig  `json:"Config"`
	Labels          map[string]string `json:"Labels,omitempty"`
}

// ContainerState is the runtime state section of a container inspect.
type ContainerState struct {
	Status     string    `json:"Status"`
	Running    bool      `json:"Running"`
	Paused     bool      `json:"Paused"`
	Restarting bool      `json:"Restarting"`
	OOMKilled  bool      `json:"OOMKilled"`
	Dead       bool      `json:"Dead"`
	Pid        int       `json:"Pid"`
	ExitCode   int       `json:"ExitCode"`
	Error      string    `json:"Error"`
	StartedAt  time.Time `json:"StartedAt"`
	FinishedAt time.Time `json:"FinishedAt"`
}

// ContainerConfig is the creation-time configuration section of an inspect.
type ContainerConfig struct {
	Hostname   string            `json:"Hostname"`
	User       string            `json:"User"`
	Env        []string          `json:"Env"`
	Cmd        []string          `json:"Cmd"`
	Entrypoint []string          `json:"Entrypoint"`
	WorkingDir string            `json:"WorkingDir"`
	Labels     map[string]string `json:"Labels"`
	Image      string            `json:"Image"`
	Tty        bool              `json:"Tty"`
}

// ContainerMount describes one mount of a container.
type ContainerMount struct {
	Type        string `json:"Type"`
	Source      string `json:"Source"`
	Destination string `json:"Destination"`
	Driver      string `json:"Driver,omitempty"`
	Mode        string `json:"Mode"`
	RW          bool   `json:"RW"`
}

// NetworkSettings is the network section of a container inspect.
type NetworkSettings struct {
	IPAddress   string                      `json:"IPAddress"`
	Gateway     string                      `json:"Gateway"`
	MacAddress  string                      `json:"MacAddress"`
	Ports       map[string][]HostPort       `json:"Ports"`
	SandboxKey  string                      `json:"SandboxKey"`
	Networks    map[string]*EndpointConfig  `json:"Networks,omitempty"`
}

// EndpointConfig describes a container's attachment to one network.
type EndpointConfig struct {
	NetworkID  string   `json:"NetworkID"`
	IPAddress  string   `json:"IPAddress"`
	Gateway    string   `json:"Gateway"`
	MacAddress string   `json:"MacAddress"`
	Aliases    []string `json:"Aliases,omitempty"`
}

// HostPort is one host-side binding of an exposed port.
type HostPort struct {
	HostIP   string `json:"HostIp"`
	HostPort string `json:"HostPort"`
}

// PortMapping maps a container port to a host port.
type PortMapping struct {
	HostIP        string `json:"host_ip,omitempty"`
	ContainerPort uint16 `json:"container_port"`
	HostPort      uint16 `json:"host_port"`
	Range         uint16 `json:"range,omitempty"`
	Protocol      string `json:"protocol,omitempty"`
}

// ContainerSpec is the specgen subset accepted by container create.
type ContainerSpec struct {
	Name          string            `json:"name,omitempty"`
	Image         string            `json:"image"`
	Command       []string          `json:"command,omitempty"`
	Entrypoint    []string          `json:"entrypoint,omitempty"`
	Env           map[string]string `json:"env,omitempty"`
	Labels        map[string]string `json:"labels,omitempty"`
	WorkDir       string            `json:"work_dir,omitempty"`
	Pod           string            `json:"pod,omitempty"`
	Hostname      string            `json:"hostname,omitempty"`
	User          string            `json:"user,omitempty"`
	Terminal      bool              `json:"terminal,omitempty"`
	Remove        bool              `json:"remove,omitempty"`
	Privileged    bool              `json:"privileged,omitempty"`
	PortMappings  []PortMapping     `json:"portmappings,omitempty"`
	Mounts        []ContainerMount  `json:"mounts,omitempty"`
	RestartPolicy string            `json:"restart_policy,omitempty"`
}

// ContainerCreateReport is the response of container create.
type ContainerCreateReport struct {
	ID       string   `json:"Id"`
	Warnings []string `json:"Warnings"`
}

// ImageSummary is one entry of an image listing.
type ImageSummary struct {
	ID          string            `json:"Id"`
	ParentID    string            `json:"ParentId"`
	RepoTags    []string          `json:"RepoTags"`
	RepoDigests []string          `json:"RepoDigests"`
	Created     int64             `json:"Created"`
	Size        int64             `json:"Size"`
	SharedSize  int64             `json:"SharedSize"`
	Labels      map[string]string `json:"Labels"`
	Containers  int               `json:"Containers"`
	Dangling    bool              `json:"Dangling,omitempty"`
}

// ImageDetails is the full inspect payload of an image.
type ImageDetails struct {
	ID           string            `json:"Id"`
	Digest       string            `json:"Digest"`
	RepoTags     []string          `json:"RepoTags"`
	RepoDigests  []string          `json:"RepoDigests"`
	Created      time.Time         `json:"Created"`
	Architecture string            `json:"Architecture"`
	Os           string            `json:"Os"`
	Size         int64             `json:"Size"`
	VirtualSize  int64             `json:"VirtualSize"`
	Author       string            `json:"Author"`
	Comment      string            `json:"Comment"`
	Labels       map[string]string `json:"Labels,omitempty"`
	Config       *ContainerConfig  `json:"Config,omitempty"`
}

// PullReport is one NDJSON frame of image pull progress.
type PullReport struct {
	Stream string   `json:"stream,omitempty"`
	Error  string   `json:"error,omitempty"`
	ID     string   `json:"id,omitempty"`
	Images []string `json:"images,omitempty"`
}

// ListPod is one entry of a pod listing.
type ListPod struct {
	ID         string             `json:"Id"`
	Name       string             `json:"Name"`
	Status     string             `json:"Status"`
	Created    time.Time          `json:"Created"`
	InfraID    string             `json:"InfraId"`
	Labels     map[string]string  `json:"Labels"`
	Networks   []string           `json:"Networks"`
	Containers []ListPodContainer `json:"Containers"`
}

// ListPodContainer is the compact container entry inside a pod listing.
type ListPodContainer struct {
	ID     string `json:"Id"`
	Names  string `json:"Names"`
	Status string `json:"Status"`
}

// PodDetails is the full inspect payload of a pod.
type PodDetails struct {
	ID               string                `json:"Id"`
	Name             string                `json:"Name"`
	Created          time.Time             `json:"Created"`
	State            string                `json:"State"`
	Hostname         string                `json:"Hostname"`
	Labels           map[string]string     `json:"Labels,omitempty"`
	CreateInfra      bool                  `json:"CreateInfra"`
	InfraContainerID string                `json:"InfraContainerID,omitempty"`
	SharedNamespaces []string              `json:"SharedNamespaces,omitempty"`
	NumContainers    uint                  `json:"NumContainers"`
	Containers       []PodContainerDetails `json:"Containers,omitempty"`
}

// PodContainerDetails is the per-container section of a pod inspect.
type PodContainerDetails struct {
	ID    string `json:"Id"`
	Name  string `json:"Name"`
	State string `json:"State"`
}

// PodSpec is the specgen subset accepted by pod create.
type PodSpec struct {
	Name             string            `json:"name,omitempty"`
	Hostname         string            `json:"hostname,omitempty"`
	Labels           map[string]string `json:"labels,omitempty"`
	NoInfra          bool              `json:"no_infra,omitempty"`
	SharedNamespaces []string          `json:"shared_namespaces,omitempty"`
	PortMappings     []PortMapping     `json:"portmappings,omitempty"`
}

// PodCreateReport is the response of pod create.
type PodCreateReport struct {
	ID string `json:"Id"`
}

// Network describes a network as listed or inspected.
type Network struct {
	Name        string            `json:"name"`
	ID          string            `json:"id"`
	Driver      string            `json:"driver"`
	Created     time.Time         `json:"created"`
	Subnets     []Subnet          `json:"subnets,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Options     map[string]string `json:"options,omitempty"`
	IPv6Enabled bool              `json:"ipv6_enabled"`
	Internal    bool              `json:"internal"`
	DNSEnabled  bool              `json:"dns_enabled"`
}

// Subnet is one subnet of a network.
type Subnet struct {
	Subnet  string `json:"subnet"`
	Gateway string `json:"gateway,omitempty"`
}

// NetworkSpec is the payload accepted by network create.
type NetworkSpec struct {
	Name        string            `json:"name"`
	Driver      string            `json:"driver,omitempty"`
	Subnets     []Subnet          `json:"subnets,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Options     map[string]string `json:"options,omitempty"`
	IPv6Enabled bool              `json:"ipv6_enabled,omitempty"`
	Internal    bool              `json:"internal,omitempty"`
	DNSEnabled  bool              `json:"dns_enabled,omitempty"`
}

// NetworkConnectOptions attaches a container to a network.
type NetworkConnectOptions struct {
	Container string   `json:"container"`
	Aliases   []string `json:"aliases,omitempty"`
}

// Volume describes a volume as listed or inspected.
type Volume struct {
	Name       string            `json:"Name"`
	Driver     string            `json:"Driver"`
	Mountpoint string            `json:"Mountpoint"`
	CreatedAt  time.Time         `json:"CreatedAt"`
	Labels     map[string]string `json:"Labels,omitempty"`
	Options    map[string]string `json:"Options,omitempty"`
	Scope      string            `json:"Scope,omitempty"`
	Anonymous  bool              `json:"Anonymous,omitempty"`
}

// VolumeSpec is the payload accepted by volume create.
type VolumeSpec struct {
	Name    string            `json:"Name,omitempty"`
	Driver  string            `json:"Driver,omitempty"`
	Labels  map[string]string `json:"Labels,omitempty"`
	Options map[string]string `json:"Options,omitempty"`
}

// PruneReport is one entry of a prune response.
type PruneReport struct {
	ID   string `json:"Id"`
	Err  string `json:"Err,omitempty"`
	Size uint64 `json:"Size"`
}

// Event is one entry of the system event stream.
type Event struct {
	Type     string     `json:"Type"`
	Action   string     `json:"Action"`
	Actor    EventActor `json:"Actor"`
	Scope    string     `json:"scope,omitempty"`
	Time     int64      `json:"time"`
	TimeNano int64      `json:"timeNano"`
}

// EventActor identifies the resource an event concerns.
type EventActor struct {
	ID         string            `json:"ID"`
	Attributes map[string]string `json:"Attributes"`
}

// Version is the service version report.
type Version struct {
	Version       string `json:"Version"`
	APIVersion    string `json:"ApiVersion"`
	MinAPIVersion string `json:"MinAPIVersion,omitempty"`
	GoVersion     string `json:"GoVersion"`
	GitCommit     string `json:"GitCommit"`
	BuiltTime     string `json:"BuildTime"`
	Os            string `json:"Os"`
	Arch          string `json:"Arch"`
}

// Info is the host and runtime information report. The service returns far
// more than this; only the stable subset is modeled.
type Info struct {
	Host struct {
		Arch        string         `json:"arch"`
		Hostname    string         `json:"hostname"`
		Kernel      string         `json:"kernel"`
		Os          string         `json:"os"`
		CPUs        int            `json:"cpus"`
		MemTotal    int64          `json:"memTotal"`
		RuntimeInfo map[string]any `json:"ociRuntime,omitempty"`
	} `json:"host"`
	Store struct {
		GraphDriverName string `json:"graphDriverName"`
		GraphRoot       string `json:"graphRoot"`
		RunRoot         string `json:"runRoot"`
		VolumePath      string `json:"volumePath"`
	} `json:"store"`
	Version Version `json:"version"`
}

// DiskUsage is the system df report.
type DiskUsage struct {
	Images     []DiskUsageEntry `json:"Images"`
	Containers []DiskUsageEntry `json:"Containers"`
	Volumes    []DiskUsageEntry `json:"Volumes"`
}

// DiskUsageEntry is one row of a disk usage report.
type DiskUsageEntry struct {
	ID         string `json:"Id,omitempty"`
	Name       string `json:"Names,omitempty"`
	Size       int64  `json:"Size"`
	SharedSize int64  `json:"SharedSize,omitempty"`
}

// WaitReport is the response of container wait.
type WaitReport struct {
	StatusCode int32 `json:"StatusCode"`
}
