package cmd

import (
	"fmt"
	"runtime"

	"github.com/vento0/vento/internal/app"
)

func printVersion() {
	fmt.Printf("vento v%s (%s/%s)\n", app.Version, runtime.GOOS, runtime.GOARCH)
}
