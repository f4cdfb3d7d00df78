package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := NewCLI().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
