package types

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Address is a parsed host:port pair as used by client seed lists and
// NOT_LEADER hints. Unlike a URL, it carries no scheme: the client
// wire protocol dials a raw byte stream, not HTTP.
type Address struct {
	raw  string
	Host string
	Port uint16
}

// NewAddress parses a "host:port" string. A port of 0 or a host that
// cannot be resolved to any usable endpoint makes the Address "sucky":
// it is still returned (so callers can log or retain it), but IsUsable
// reports false and C3 must not attempt to dial it.
func NewAddress(txt string) (Address, error) {
	txt = strings.TrimSpace(txt)

	host, portTxt, err := net.SplitHostPort(txt)
	if err != nil {
		return Address{}, fmt.Errorf("address must have the form host:port: %q: %v", txt, err)
	}

	port, err := strconv.ParseUint(portTxt, 10, 16)
	if err != nil {
		return Address{}, fmt.Errorf("address port must be a valid uint16: %q: %v", txt, err)
	}

	return Address{raw: txt, Host: host, Port: uint16(port)}, nil
}

// MustNewAddress parses txt, panicking on error. Intended for
// hardcoded seed lists in tests and examples.
func MustNewAddress(txt string) Address {
	a, err := NewAddress(txt)
	if err != nil {
		panic(err)
	}
	return a
}

// IsUsable reports whether the address is dialable: non-zero port and
// a host that resolves to at least one IP. It never blocks on a live
// connection attempt, only on name resolution.
func (a Address) IsUsable() bool {
	if a.Port == 0 {
		return false
	}
	if ip := net.ParseIP(a.Host); ip != nil {
		return true
	}
	_, err := net.LookupHost(a.Host)
	return err == nil
}

// String returns the original "host:port" text the Address was parsed from.
func (a Address) String() string {
	return a.raw
}

// Addresses is a slice of Address, e.g. a seed list.
type Addresses []Address

// NewAddresses parses each of strs with NewAddress.
func NewAddresses(strs []string) (Addresses, error) {
	out := make(Addresses, len(strs))
	for i, s := range strs {
		a, err := NewAddress(s)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

// StringSlice converts Addresses back to their original string form.
func (as Addresses) StringSlice() []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.String()
	}
	return out
}
