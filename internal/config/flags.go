package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-driver storage driver name ("pgx", "sqlite3", "memory")
//	-c/-config json file path with configs
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-balance-retries max retries for conditional balance updates
//	-retry-backoff delay between balance update retries
//	-reconcile-interval transfer reconciler scan interval
//	-stale-after age after which a debited transfer counts as interrupted
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var storageDriver string
	var jsonConfigPath string
	var requestTimeout time.Duration
	var balanceRetries uint64
	var retryBackoff time.Duration
	var reconcileInterval time.Duration
	var staleAfter time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&storageDriver, "driver", "", "Storage driver (pgx, sqlite3, memory)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.Uint64Var(&balanceRetries, "balance-retries", 0, "Max retries for conditional balance updates")
	flag.DurationVar(&retryBackoff, "retry-backoff", 0, "Delay between balance update retries")
	flag.DurationVar(&reconcileInterval, "reconcile-interval", 0, "Transfer reconciler scan interval")
	flag.DurationVar(&staleAfter, "stale-after", 0, "Age after which a debited transfer counts as interrupted")

	flag.Parse()

	return &StructuredConfig{
		Storage: Storage{
			DB: DB{
				DSN:    databaseDSN,
				Driver: storageDriver,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Ledger: Ledger{
			BalanceRetries: balanceRetries,
			RetryBackoff:   retryBackoff,
		},
		Workers: Workers{
			ReconcileInterval: reconcileInterval,
			StaleAfter:        staleAfter,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string so that the
// merge step can fall through to other sources.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
