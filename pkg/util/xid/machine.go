package xid

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// 测试注入点。
var (
	osHostname = os.Hostname
	osGetpid   = os.Getpid
)

// EnvMachineID 直接指定机器 ID（0-65535），优先于哈希推导。
const EnvMachineID = "XACTOR_MACHINE_ID"

// DefaultMachineID 等同于 MachineIDFor("")。
func DefaultMachineID() (uint16, error) {
	return MachineIDFor("")()
}

// MachineIDFor 返回 stage 的机器 ID 来源：XACTOR_MACHINE_ID 有值时使用它，
// 否则取 "主机名/进程号/stage 名" 的哈希。同一主机上的多个进程、
// 同一进程内的多个 stage 因此得到不同的 ID。
//
// 哈希方式存在碰撞可能，跨主机部署时应显式设置 XACTOR_MACHINE_ID。
func MachineIDFor(stage string) func() (uint16, error) {
	return func() (uint16, error) {
		if s := os.Getenv(EnvMachineID); s != "" {
			id, err := strconv.ParseUint(s, 10, 16)
			if err != nil {
				return 0, fmt.Errorf("xid: invalid %s value %q: %w", EnvMachineID, s, err)
			}
			return uint16(id), nil
		}
		host, err := osHostname()
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrNoMachineID, err)
		}
		if host == "" {
			return 0, fmt.Errorf("%w: empty hostname", ErrNoMachineID)
		}
		return fold(xxhash.Sum64String(host + "/" + strconv.Itoa(osGetpid()) + "/" + stage)), nil
	}
}

// fold 把 64 位哈希折叠为 16 位。
func fold(h uint64) uint16 {
	return uint16(h>>48) ^ uint16(h>>32) ^ uint16(h>>16) ^ uint16(h)
}
