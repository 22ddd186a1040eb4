// Command boleta builds the rejection boleta (boleta de rechazo) from the
// shop-floor rejection log and manages the log itself.
//
//	boleta report --config boleta.yaml --shift A --out pages/
//	boleta import registros.csv
//	boleta record --part P-100 --defect "Soldadura fria" --line L3 --shift A
//	boleta bom list P-100
//	boleta validate
//	boleta serve --addr :8080
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/JosueFrayreGarcia777/ScrapSystem/internal/storage/all"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "boleta:", err)
		stop()
		os.Exit(1)
	}
}
