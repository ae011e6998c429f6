package erp

import "os"

// Config carries the ERP endpoints and login credentials. All values
// come from the environment; see .env.example.
type Config struct {
	LoginURL         string
	InventoryURL     string
	InventoryListURL string

	ComCode    string
	UserID     string
	APICertKey string
	LanType    string
	Zone       string
}

func ConfigFromEnv() Config {
	return Config{
		LoginURL:         os.Getenv("URL_ERP_LOGIN"),
		InventoryURL:     os.Getenv("URL_ERP_INVENTORY"),
		InventoryListURL: os.Getenv("URL_ERP_INVENTORY_LIST"),
		ComCode:          os.Getenv("COM_CODE"),
		UserID:           os.Getenv("USER_ID"),
		APICertKey:       os.Getenv("API_CERT_KEY"),
		LanType:          os.Getenv("LAN_TYPE"),
		Zone:             os.Getenv("ZONE"),
	}
}
