package pgrst

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var rpcCmd = &cobra.Command{
	Use:   "rpc <function> [params-json]",
	Short: "Invoke a stored database function",
	Long:  `POSTs the given JSON params to /rpc/{function} and prints the JSON response`,
	Args:  cobra.RangeArgs(1, 2),
	Run:   runRPC,
}

func init() {
	rootCmd.AddCommand(rpcCmd)
}

func runRPC(cmd *cobra.Command, args []string) {
	client, err := newClient()
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	params := map[string]any{}
	if len(args) == 2 {
		if err := json.Unmarshal([]byte(args[1]), &params); err != nil {
			log.Fatalf("Invalid params JSON: %v", err)
		}
	}

	rpc, err := client.Rpc(args[0], params)
	if err != nil {
		log.Fatalf("Invalid function: %v", err)
	}

	resp, err := rpc.Execute(context.Background())
	if err != nil {
		log.Fatalf("RPC failed: %v", err)
	}

	os.Stdout.Write(resp.Body)
	fmt.Println()
}
