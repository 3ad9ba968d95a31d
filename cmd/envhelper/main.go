// Command envhelper is the setuid-root bind-mount helper: it builds and
// tears down the chroot skeleton other jailed runs need to find a dynamic
// linker and a shell.
package main

import (
	"fmt"
	"os"

	"github.com/xelez/srun2/internal/envmount"
	"github.com/xelez/srun2/internal/logx"
)

func main() {
	if err := envmount.DropPrivileges(); err != nil {
		logx.SysError("drop privileges", err)
		os.Exit(1)
	}

	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: env_helper create|remove <path>")
		os.Exit(1)
	}

	action, path := os.Args[1], os.Args[2]

	var err error
	switch action {
	case "create":
		err = envmount.Create(path)
	case "remove":
		err = envmount.Remove(path)
	default:
		fmt.Fprintln(os.Stderr, "usage: env_helper create|remove <path>")
		os.Exit(1)
	}

	if err != nil {
		logx.SysError(action+" failed", err)
		os.Exit(1)
	}
}
