// Package hostinfo reads the host-side metrics the sampler consumes: CPU,
// memory, storage, interface addresses and cumulative traffic counters.
package hostinfo

import (
	"net"
	"os"
	"strconv"
	"strings"

	"codeberg.org/renvik/pistat/internal/errors"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	gnet "github.com/shirou/gopsutil/v3/net"
)

const (
	thermalZonePath = "/sys/class/thermal/thermal_zone0/temp"
	cpuFreqPath     = "/sys/devices/system/cpu/cpu0/cpufreq/scaling_cur_freq"

	bytesPerGB = 1 << 30
)

const (
	ErrCPURead     = errors.ErrorCode("host_cpu_read_failed")
	ErrMemoryRead  = errors.ErrorCode("host_memory_read_failed")
	ErrDiskRead    = errors.ErrorCode("host_disk_read_failed")
	ErrAddrList    = errors.ErrorCode("host_addr_list_failed")
	ErrRouteProbe  = errors.ErrorCode("host_route_probe_failed")
	ErrNetCounters = errors.ErrorCode("host_net_counters_failed")
)

// CPUStat is one CPU observation. TempC is zero when the thermal zone is
// unreadable; that is degraded, not an error.
type CPUStat struct {
	FreqGHz float64
	Percent float64
	TempC   float64
}

// Usage is a total/used pair for memory or storage.
type Usage struct {
	TotalGB float64
	UsedGB  float64
	Percent float64
}

// Addr is one interface with its IPv4 address.
type Addr struct {
	Name string
	IP   string
}

// Source reads host metrics. One instance is constructed at startup and
// shared by every sampling pass.
type Source struct {
	mountpoint string
	probeAddr  string
}

func New(mountpoint, probeAddr string) *Source {
	return &Source{
		mountpoint: mountpoint,
		probeAddr:  probeAddr,
	}
}

// CPU returns frequency, utilization and temperature. Temperature failure
// degrades to zero rather than failing the read.
func (s *Source) CPU() (CPUStat, error) {
	errFactory := errors.New()

	percents, err := cpu.Percent(0, false)
	if err != nil || len(percents) == 0 {
		return CPUStat{}, errFactory.Wrap(ErrCPURead, err)
	}

	stat := CPUStat{Percent: percents[0]}
	stat.FreqGHz = currentFreqGHz()
	if raw, err := os.ReadFile(thermalZonePath); err == nil {
		if milli, err := strconv.Atoi(strings.TrimSpace(string(raw))); err == nil {
			stat.TempC = float64(milli) / 1000.0
		}
	}

	return stat, nil
}

// currentFreqGHz prefers the live cpufreq reading; nominal frequency from
// cpuinfo is the fallback for kernels without cpufreq.
func currentFreqGHz() float64 {
	if raw, err := os.ReadFile(cpuFreqPath); err == nil {
		if khz, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64); err == nil {
			return khz / 1e6
		}
	}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		return infos[0].Mhz / 1000.0
	}

	return 0
}

func (s *Source) Memory() (Usage, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return Usage{}, errors.New().Wrap(ErrMemoryRead, err)
	}

	return Usage{
		TotalGB: float64(vm.Total) / bytesPerGB,
		UsedGB:  float64(vm.Used) / bytesPerGB,
		Percent: vm.UsedPercent,
	}, nil
}

func (s *Source) Disk() (Usage, error) {
	du, err := disk.Usage(s.mountpoint)
	if err != nil {
		return Usage{}, errors.New().Wrap(ErrDiskRead, err)
	}

	return Usage{
		TotalGB: float64(du.Total) / bytesPerGB,
		UsedGB:  float64(du.Used) / bytesPerGB,
		Percent: du.UsedPercent,
	}, nil
}

// Addrs lists IPv4 addresses per interface, skipping loopback and
// link-local addresses. Order follows the kernel's interface ordering.
func (s *Source) Addrs() ([]Addr, error) {
	ifaces, err := gnet.Interfaces()
	if err != nil {
		return nil, errors.New().Wrap(ErrAddrList, err)
	}

	var addrs []Addr
	for _, iface := range ifaces {
		for _, a := range iface.Addrs {
			ip := ipv4Of(a.Addr)
			if ip == "" || Filtered(ip) {
				continue
			}
			addrs = append(addrs, Addr{Name: iface.Name, IP: ip})
		}
	}

	return addrs, nil
}

// Filtered reports whether an address is loopback or link-local and should
// not be shown.
func Filtered(ip string) bool {
	return strings.HasPrefix(ip, "127.") || strings.HasPrefix(ip, "169.254.")
}

func ipv4Of(cidr string) string {
	addr, _, _ := strings.Cut(cidr, "/")
	ip := net.ParseIP(addr)
	if ip == nil || ip.To4() == nil {
		return ""
	}

	return ip.String()
}

// RouteAddr discovers the local source address routing would pick for
// external traffic. The UDP dial never sends a packet; it only asks the
// kernel to resolve a route.
func (s *Source) RouteAddr() (string, error) {
	conn, err := net.Dial("udp", s.probeAddr)
	if err != nil {
		return "", errors.New().Wrap(ErrRouteProbe, err)
	}
	defer conn.Close()

	local, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "", errors.New().New(ErrRouteProbe)
	}

	return local.IP.String(), nil
}

// Counters returns cumulative received/sent byte counters summed over all
// interfaces.
func (s *Source) Counters() (recv, sent uint64, err error) {
	counters, err := gnet.IOCounters(false)
	if err != nil || len(counters) == 0 {
		return 0, 0, errors.New().Wrap(ErrNetCounters, err)
	}

	return counters[0].BytesRecv, counters[0].BytesSent, nil
}
