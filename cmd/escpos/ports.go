package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-escpos/transport"
)

func newPortsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "ports",
		Short:       "List serial ports",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := transport.ListSerialPorts()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ports) == 0 {
				fmt.Fprintln(out, "No serial ports found")
				return nil
			}
			fmt.Fprintln(out, renderTable([]string{"Port", "USB", "VID:PID", "Serial", "Product"}, portRows(ports), nil))
			return nil
		},
	}
}

func portRows(ports []transport.PortInfo) [][]string {
	rows := make([][]string, 0, len(ports))
	for _, p := range ports {
		id := ""
		if p.IsUSB {
			id = p.VID + ":" + p.PID
		}
		rows = append(rows, []string{p.Name, yesNo(p.IsUSB), id, p.SerialNumber, p.Product})
	}
	return rows
}
