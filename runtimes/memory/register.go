package memory

import (
	"github.com/petal-labs/ocbot/core"
	"github.com/petal-labs/ocbot/runtimes"
)

func init() {
	runtimes.Register(runtimeID, func(string) core.Runtime {
		return New(WithDemoChats())
	})
}
