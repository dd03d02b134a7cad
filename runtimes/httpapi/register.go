package httpapi

import (
	"github.com/petal-labs/ocbot/core"
	"github.com/petal-labs/ocbot/runtimes"
)

func init() {
	runtimes.Register(runtimeID, func(token string) core.Runtime {
		return New(token)
	})
}
