package connection

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"  // registers "pgx"
	_ "github.com/microsoft/go-mssqldb" // registers "sqlserver"
	"github.com/zoobzio/fluentql"
	"github.com/zoobzio/fluentql/pkg/mssql"
	fqlmysql "github.com/zoobzio/fluentql/pkg/mysql"
	"github.com/zoobzio/fluentql/pkg/postgres"
	"github.com/zoobzio/fluentql/pkg/sqlite"
	_ "modernc.org/sqlite" // registers "sqlite"
)

// Supported driver names.
const (
	DriverMySQL     = "mysql"
	DriverMariaDB   = "mariadb"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
	DriverSQLServer = "sqlserver"
)

// ErrUnknownDriver is returned for a driver name with no registered backend.
var ErrUnknownDriver = errors.New("unknown driver")

// driver couples a configured driver name to its database/sql driver,
// DSN format and SQL dialect.
type driver struct {
	sqlName string
	dsn     func(fluentql.ConnectionDetails) (string, error)
	dialect func() fluentql.Dialect
}

var drivers = map[string]driver{
	DriverMySQL: {
		sqlName: "mysql",
		dsn:     mysqlDSN,
		dialect: func() fluentql.Dialect { return fqlmysql.New() },
	},
	DriverMariaDB: {
		sqlName: "mysql",
		dsn:     mysqlDSN,
		dialect: func() fluentql.Dialect { return fqlmysql.New() },
	},
	DriverPostgres: {
		sqlName: "pgx",
		dsn:     postgresDSN,
		dialect: func() fluentql.Dialect { return postgres.New() },
	},
	DriverSQLite: {
		sqlName: "sqlite",
		dsn:     sqliteDSN,
		dialect: func() fluentql.Dialect { return sqlite.New() },
	},
	DriverSQLServer: {
		sqlName: "sqlserver",
		dsn:     sqlserverDSN,
		dialect: func() fluentql.Dialect { return mssql.New() },
	},
}

// Drivers returns the supported driver names in sorted order.
func Drivers() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupDriver(name string) (driver, error) {
	d, ok := drivers[strings.ToLower(name)]
	if !ok {
		return driver{}, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}
	return d, nil
}

// DialectFor returns the SQL dialect for a driver name.
func DialectFor(name string) (fluentql.Dialect, error) {
	d, err := lookupDriver(name)
	if err != nil {
		return nil, err
	}
	return d.dialect(), nil
}

// DSN formats details as a data source name for the driver's
// database/sql backend.
func DSN(details fluentql.ConnectionDetails) (string, error) {
	d, err := lookupDriver(details.Driver)
	if err != nil {
		return "", err
	}
	return d.dsn(WithDefaults(details))
}

func hostPort(details fluentql.ConnectionDetails) string {
	host := details.Host
	if host == "" {
		host = "localhost"
	}
	return net.JoinHostPort(host, strconv.Itoa(details.Port))
}

func mysqlDSN(details fluentql.ConnectionDetails) (string, error) {
	cfg := mysql.NewConfig()
	cfg.User = details.User
	cfg.Passwd = details.Password
	cfg.Net = "tcp"
	cfg.Addr = hostPort(details)
	cfg.DBName = details.Database
	if len(details.Options) > 0 {
		cfg.Params = make(map[string]string, len(details.Options))
		for k, v := range details.Options {
			cfg.Params[k] = v
		}
	}
	return cfg.FormatDSN(), nil
}

func postgresDSN(details fluentql.ConnectionDetails) (string, error) {
	u := url.URL{
		Scheme: "postgres",
		Host:   hostPort(details),
		Path:   "/" + details.Database,
	}
	if details.User != "" {
		u.User = url.UserPassword(details.User, details.Password)
	}
	u.RawQuery = query(details.Options).Encode()

	dsn := u.String()
	if _, err := pgx.ParseConfig(dsn); err != nil {
		return "", fmt.Errorf("invalid postgres settings: %w", err)
	}
	return dsn, nil
}

func sqliteDSN(details fluentql.ConnectionDetails) (string, error) {
	if details.Database == "" {
		return "", fmt.Errorf("sqlite requires a database path")
	}
	if len(details.Options) == 0 {
		return details.Database, nil
	}
	return "file:" + details.Database + "?" + query(details.Options).Encode(), nil
}

func sqlserverDSN(details fluentql.ConnectionDetails) (string, error) {
	q := query(details.Options)
	if details.Database != "" {
		q.Set("database", details.Database)
	}
	u := url.URL{
		Scheme:   "sqlserver",
		Host:     hostPort(details),
		RawQuery: q.Encode(),
	}
	if details.User != "" {
		u.User = url.UserPassword(details.User, details.Password)
	}
	return u.String(), nil
}

func query(options map[string]string) url.Values {
	q := url.Values{}
	for k, v := range options {
		q.Set(k, v)
	}
	return q
}
