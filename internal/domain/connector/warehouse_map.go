package connector

import "strings"

// WarehouseMap is the bidirectional lookup between local warehouse codes and
// an external system's warehouse identifiers. It is configured per connector
// as newline-delimited "local=remote" pairs.
type WarehouseMap struct {
	localToRemote map[string]string
	remoteToLocal map[string]string
}

// ParseWarehouseMap builds a WarehouseMap from its configured text form.
// Blank lines and lines without '=' are ignored. When the same local code
// appears twice, the last pair wins in both directions.
func ParseWarehouseMap(mapping string) WarehouseMap {
	m := WarehouseMap{
		localToRemote: make(map[string]string),
		remoteToLocal: make(map[string]string),
	}
	for _, line := range strings.Split(mapping, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		local, remote, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		local = strings.TrimSpace(local)
		remote = strings.TrimSpace(remote)
		if local == "" || remote == "" {
			continue
		}
		if old, exists := m.localToRemote[local]; exists {
			delete(m.remoteToLocal, old)
		}
		m.localToRemote[local] = remote
		m.remoteToLocal[remote] = local
	}
	return m
}

// Remote translates a local warehouse code to the external identifier,
// returning the input unchanged when no pair is configured for it.
func (m WarehouseMap) Remote(local string) string {
	if remote, ok := m.localToRemote[local]; ok {
		return remote
	}
	return local
}

// Local translates an external warehouse identifier to the local code,
// returning the input unchanged when no pair is configured for it.
func (m WarehouseMap) Local(remote string) string {
	if local, ok := m.remoteToLocal[remote]; ok {
		return local
	}
	return remote
}

// Len returns the number of configured pairs
func (m WarehouseMap) Len() int {
	return len(m.localToRemote)
}
