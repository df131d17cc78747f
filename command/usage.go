package command

import (
	"fmt"

	"github.com/fatih/color"
)

const (
	app         = "go-redis-parser"
	version     = "v0.2.0"
	releaseTime = "2026-10"

	logo = `
  ____ _____      ____  _____ ____ ___ ____        ____   _    ____  ____  _____ ____
 / ___|  _  |    |  _ \| ____|  _ \_ _/ ___|      |  _ \ / \  |  _ \/ ___|| ____|  _ \
| |  _| | | |____| |_) |  _| | | | | |\___ \ _____| |_) / _ \ | |_) \___ \|  _| | |_) |
| |_| | |_| |____|  _ <| |___| |_| | | ___) |_____|  __/ ___ \|  _ < ___) | |___|  _ <
 \____|_____|    |_| \_\_____|____/___|____/      |_| /_/   \_\_| \_\____/|_____|_| \_\
`
	usageformat = "%s\n%s %s, released %s\n\nDecode Redis RDB dumps and AOF files into csv or json.\n"
)

func banner() string {
	return fmt.Sprintf(usageformat, logo, color.GreenString(app), color.YellowString(version), releaseTime)
}
