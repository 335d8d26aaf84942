package main

import (
	"encoding/json"
	"fmt"
	"os"

	giga "github.com/dogecoinfoundation/gigaledger/pkg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	// Load config
	var configPath string
	var config giga.Config

	LoadConfig(configPath, &config)

	// define root command
	rootCmd := &cobra.Command{
		Use: "gigaledger",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
			os.Exit(0)
		},
	}

	// Add flags for each configuration option
	rootCmd.PersistentFlags().StringVar(&config.Gigaledger.ServiceName, "service-name", "", "Service name")
	rootCmd.PersistentFlags().StringVar(&config.Gigaledger.Node, "node", "", "Node config key for the ZMQ rawtx feed")
	rootCmd.PersistentFlags().StringVar(&config.WebAPI.AdminBind, "webapi-admin-bind", "", "Admin API bind address")
	rootCmd.PersistentFlags().StringVar(&config.WebAPI.AdminPort, "webapi-admin-port", "", "Admin API port")
	rootCmd.PersistentFlags().StringVar(&config.WebAPI.PubBind, "webapi-pub-bind", "", "Public API bind address")
	rootCmd.PersistentFlags().StringVar(&config.WebAPI.PubPort, "webapi-pub-port", "", "Public API port")
	rootCmd.PersistentFlags().StringVar(&config.Store.DBFile, "store-db-file", "", "Store DB file")
	// Bind flags to config fields
	viper.BindPFlags(rootCmd.PersistentFlags())

	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Start the GigaLedger server",
		Run: func(cmd *cobra.Command, args []string) {
			Server(config)
		},
	}

	configCmd := &cobra.Command{
		Use:   "showconf",
		Short: "Print the config state and exit",
		Run: func(cmd *cobra.Command, args []string) {
			o, _ := json.MarshalIndent(config, ">", " ")
			fmt.Println(string(o))
			os.Exit(0)
		},
	}

	var sub SubCommandArgs
	decodeCmd := &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode a hex-encoded wire transaction via a running GigaLedger",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := DecodeTxn(args[0], config, sub); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		},
	}
	decodeCmd.Flags().StringVar(&sub.RemoteAdminServer, "remote", "", "Remote admin API base URL")

	submitCmd := &cobra.Command{
		Use:   "submit [hex]",
		Short: "Decode, validate and apply a hex-encoded transaction via a running GigaLedger",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := SubmitTxn(args[0], config, sub); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		},
	}
	submitCmd.Flags().StringVar(&sub.RemoteAdminServer, "remote", "", "Remote admin API base URL")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(submitCmd)

	// Execute the Cobra command
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
	}

}

func LoadConfig(configPath string, config *giga.Config) {

	configFileName, set := os.LookupEnv("GIGALEDGER_ENV")
	if set {
		viper.SetConfigName(configFileName)
	} else {
		viper.SetConfigName("config")
	}

	// Set config file name and search paths
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/gigaledger/")
	viper.AddConfigPath("$HOME/.gigaledger")

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("failed to find config file: ", err)
		os.Exit(1)
	}

	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("failed to unmarshal config: %s", err))
	}
}
