package util

import (
	"net"
	"os"
	"time"

	"github.com/oschwald/geoip2-golang"
	cache "github.com/patrickmn/go-cache"
)

var (
	geoipDB    *geoip2.Reader
	geoipCache *cache.Cache
)

// InitGeoIP opens a local GeoIP2/GeoLite2 .mmdb database used to enrich
// security log entries with a coarse location. If dbPath is empty the
// GEOIP_DB_PATH env var is consulted; if that is also empty, GeoIP lookups
// are disabled and initialization is a no-op.
func InitGeoIP(dbPath string) error {
	if dbPath == "" {
		dbPath = os.Getenv("GEOIP_DB_PATH")
	}
	if dbPath == "" {
		return nil
	}

	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}
	geoipDB = r
	geoipCache = cache.New(24*time.Hour, time.Hour)
	return nil
}

// CloseGeoIP releases the GeoIP database reader.
func CloseGeoIP() {
	if geoipDB != nil {
		_ = geoipDB.Close()
		geoipDB = nil
	}
	geoipCache = nil
}

type ipLocation struct {
	City    string
	Country string
}

// GetIPLocation resolves an IP to (city, country) using the local GeoIP
// database. Results are cached per IP. Returns empty strings when the
// database is not loaded or the IP cannot be resolved.
func GetIPLocation(ip string) (string, string) {
	if geoipDB == nil || ip == "" {
		return "", ""
	}
	if cached, ok := geoipCache.Get(ip); ok {
		loc := cached.(ipLocation)
		return loc.City, loc.Country
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", ""
	}
	record, err := geoipDB.City(parsed)
	if err != nil {
		return "", ""
	}

	loc := ipLocation{
		City:    record.City.Names["en"],
		Country: record.Country.Names["en"],
	}
	geoipCache.Set(ip, loc, cache.DefaultExpiration)
	return loc.City, loc.Country
}
