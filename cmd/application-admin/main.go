package main

import (
	"errors"
	"fmt"
	"os"

	apperrors "application-admin/internal/common/errors"
)

func main() {
	if err := run(defaultStreams(), os.Args[1:]); err != nil {
		var shown *reportedError
		if !errors.As(err, &shown) {
			fmt.Fprintln(os.Stderr, "Error:", apperrors.UserMessage(err))
		}
		os.Exit(1)
	}
}
