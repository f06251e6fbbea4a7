package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/igormath/ic-dataviz/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner() {
	banner := `
        /$$$$$$$   /$$$$$$  /$$$$$$$        /$$$$$$$                      /$$       /$$                                           /$$
       | $$__  $$ /$$__  $$| $$__  $$      | $$__  $$                    | $$      | $$                                          | $$
       | $$  \ $$| $$  \ $$| $$  \ $$      | $$  \ $$  /$$$$$$   /$$$$$$$| $$$$$$$ | $$$$$$$   /$$$$$$   /$$$$$$   /$$$$$$   /$$$$$$$
       | $$$$$$$/| $$$$$$$$| $$  | $$      | $$  | $$ |____  $$ /$$_____/| $$__  $$| $$__  $$ /$$__  $$ |____  $$ /$$__  $$ /$$__  $$
       | $$__  $$| $$__  $$| $$  | $$      | $$  | $$  /$$$$$$$|  $$$$$$ | $$  \ $$| $$  \ $$| $$  \ $$  /$$$$$$$| $$  \__/| $$  | $$
       | $$  \ $$| $$  | $$| $$  | $$      | $$  | $$ /$$__  $$ \____  $$| $$  | $$| $$  | $$| $$  | $$ /$$__  $$| $$      | $$  | $$
       | $$  | $$| $$  | $$| $$$$$$$/      | $$$$$$$/|  $$$$$$$ /$$$$$$$/| $$  | $$| $$$$$$$/|  $$$$$$/|  $$$$$$$| $$      |  $$$$$$$
       |__/  |__/|__/  |__/|_______/       |_______/  \_______/|_______/ |__/  |__/|_______/  \______/  \_______/|__/       \_______/
        `
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(green(banner))
	fmt.Println(blue(fmt.Sprintf("RAD Dashboard CLI (v%s)", version.FormatVersion())))
}
