package buff

import "strings"

// EnsureProtoAddr prefixes addr with "tcp://" if it doesn't already carry a
// gnet-style scheme, so callers can accept a bare ":8080" the way net/http
// does and still satisfy gnet.Run's addr argument.
func EnsureProtoAddr(addr string) string {
	if strings.Contains(addr, "://") {
		return addr
	}
	return "tcp://" + addr
}
