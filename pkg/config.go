package giga

type Config struct {
	Gigaledger struct {
		ServiceName string `mapstructure:"service_name"`
		// key for which Node struct to listen to (empty: no node listener)
		Node string `mapstructure:"node"`
	} `mapstructure:"gigaledger"`

	WebAPI struct {
		AdminBind     string `mapstructure:"admin_bind"`
		AdminPort     string `mapstructure:"admin_port"`
		PubBind       string `mapstructure:"pub_bind"`
		PubPort       string `mapstructure:"pub_port"`
		PubAPIRootURL string `mapstructure:"pub_api_root_url"`
	} `mapstructure:"webapi"`

	Store struct {
		DBFile string `mapstructure:"db_file"`
	} `mapstructure:"store"`

	// file loggers subscribed to bus events
	Loggers map[string]LoggerConfig `mapstructure:"loggers"`

	// info for connecting to ledger node daemons (ZMQ raw-txn feeds)
	Node map[string]NodeConfig `mapstructure:"node"`
}

type LoggerConfig struct {
	Path  string   `mapstructure:"path"`
	Types []string `mapstructure:"types"`
}

type NodeConfig struct {
	Host    string `mapstructure:"host"`
	ZMQPort int    `mapstructure:"zmq_port"`
}

// TestConfig returns a config suitable for unit tests:
// in-memory store, ephemeral ports, no node listener.
func TestConfig() Config {
	c := Config{}
	c.Gigaledger.ServiceName = "gigaledger-test"
	c.WebAPI.AdminBind = "localhost"
	c.WebAPI.AdminPort = "8081"
	c.WebAPI.PubBind = "localhost"
	c.WebAPI.PubPort = "8082"
	c.WebAPI.PubAPIRootURL = "http://localhost:8082"
	c.Store.DBFile = ":memory:"
	return c
}
