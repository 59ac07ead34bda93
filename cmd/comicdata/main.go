// comicdata embeds comic metadata from a CSV file into userscripts.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/vainstains/comicdata/internal/cli"
)

func main() {
	// COMICDATA_* settings may live in a local .env file.
	_ = godotenv.Load()

	os.Exit(cli.Execute())
}
