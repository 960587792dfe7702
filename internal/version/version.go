package version

import (
	"fmt"
	"strconv"
	"time"
)

// Version is the application version. Can be overridden at build time via:
//
//	go build -ldflags "-X winsbygroup.com/priceserver/internal/version.Version=1.2.3"
var Version = "1.0"

// RepoURL is the project repository URL. Can be overridden at build time via:
//
//	go build -ldflags "-X winsbygroup.com/priceserver/internal/version.RepoURL=https://github.com/yourfork/priceserver"
var RepoURL = "https://github.com/winsbygroup/priceserver"

// Banner prints identifying information about the server.
func Banner() string {
	y := strconv.Itoa(time.Now().Year())
	copyright := "Copyright 2025-" + y + " Winsby Group LLC. All rights reserved."

	return fmt.Sprintf("%s\nPriceserver (v%s)\n%s\n%s\n", product(), Version, RepoURL, copyright)
}

func product() string {
	const s = `
 ____         _
|  _ \  _ __ (_)  ___   ___  ___   ___  _ __ __   __  ___  _ __
| |_) || '__|| | / __| / _ \/ __| / _ \| '__|\ \ / / / _ \| '__|
|  __/ | |   | || (__ |  __/\__ \|  __/| |    \ V / |  __/| |
|_|    |_|   |_| \___| \___||___/ \___||_|     \_/   \___||_|
`
	return s
}
