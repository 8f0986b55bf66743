package specs

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inei-oti/activos-backend/internal/infra/db"
)

// Repo persists the one-per-asset detail records and asset licenses. Upserts
// replace the whole record; an unknown asset surfaces the foreign key as a
// conflict.
type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) UpsertComputer(ctx context.Context, c ComputerSpecs) (*ComputerSpecs, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO computer_specs (asset_id, cpu_model, ram_gb, storage_gb, os_name, ip_address, mac_address)
		VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),$7)
		ON CONFLICT (asset_id)
		DO UPDATE SET cpu_model=EXCLUDED.cpu_model, ram_gb=EXCLUDED.ram_gb,
			storage_gb=EXCLUDED.storage_gb, os_name=EXCLUDED.os_name,
			ip_address=EXCLUDED.ip_address, mac_address=EXCLUDED.mac_address
		RETURNING asset_id, cpu_model, ram_gb, storage_gb, os_name, COALESCE(ip_address::text,''), mac_address
	`, c.AssetID, c.CPUModel, c.RAMGB, c.StorageGB, c.OSName, c.IPAddress, c.MACAddress)
	var out ComputerSpecs
	if err := row.Scan(&out.AssetID, &out.CPUModel, &out.RAMGB, &out.StorageGB, &out.OSName, &out.IPAddress, &out.MACAddress); err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return &out, nil
}

func (r *Repo) Computer(ctx context.Context, assetID int64) (*ComputerSpecs, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT asset_id, cpu_model, ram_gb, storage_gb, os_name, COALESCE(ip_address::text,''), mac_address
		FROM computer_specs WHERE asset_id=$1
	`, assetID)
	var out ComputerSpecs
	err := row.Scan(&out.AssetID, &out.CPUModel, &out.RAMGB, &out.StorageGB, &out.OSName, &out.IPAddress, &out.MACAddress)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) UpsertPeripheral(ctx context.Context, p PeripheralDetails) (*PeripheralDetails, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO peripheral_details (asset_id, brand, model, connectivity)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (asset_id)
		DO UPDATE SET brand=EXCLUDED.brand, model=EXCLUDED.model, connectivity=EXCLUDED.connectivity
		RETURNING asset_id, brand, model, connectivity
	`, p.AssetID, p.Brand, p.Model, p.Connectivity)
	var out PeripheralDetails
	if err := row.Scan(&out.AssetID, &out.Brand, &out.Model, &out.Connectivity); err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return &out, nil
}

func (r *Repo) Peripheral(ctx context.Context, assetID int64) (*PeripheralDetails, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT asset_id, brand, model, connectivity FROM peripheral_details WHERE asset_id=$1
	`, assetID)
	var out PeripheralDetails
	err := row.Scan(&out.AssetID, &out.Brand, &out.Model, &out.Connectivity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) UpsertPrinter(ctx context.Context, p PrinterDetails) (*PrinterDetails, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO printer_details (asset_id, print_technology, ppm, supports_duplex)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (asset_id)
		DO UPDATE SET print_technology=EXCLUDED.print_technology, ppm=EXCLUDED.ppm,
			supports_duplex=EXCLUDED.supports_duplex
		RETURNING asset_id, print_technology, ppm, supports_duplex
	`, p.AssetID, p.PrintTechnology, p.PPM, p.SupportsDuplex)
	var out PrinterDetails
	if err := row.Scan(&out.AssetID, &out.PrintTechnology, &out.PPM, &out.SupportsDuplex); err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return &out, nil
}

func (r *Repo) Printer(ctx context.Context, assetID int64) (*PrinterDetails, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT asset_id, print_technology, ppm, supports_duplex FROM printer_details WHERE asset_id=$1
	`, assetID)
	var out PrinterDetails
	err := row.Scan(&out.AssetID, &out.PrintTechnology, &out.PPM, &out.SupportsDuplex)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) UpsertNetwork(ctx context.Context, n NetworkDeviceDetails) (*NetworkDeviceDetails, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO network_device_details (asset_id, ports, managed, wifi_standard)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (asset_id)
		DO UPDATE SET ports=EXCLUDED.ports, managed=EXCLUDED.managed, wifi_standard=EXCLUDED.wifi_standard
		RETURNING asset_id, ports, managed, wifi_standard
	`, n.AssetID, n.Ports, n.Managed, n.WiFiStandard)
	var out NetworkDeviceDetails
	if err := row.Scan(&out.AssetID, &out.Ports, &out.Managed, &out.WiFiStandard); err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return &out, nil
}

func (r *Repo) Network(ctx context.Context, assetID int64) (*NetworkDeviceDetails, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT asset_id, ports, managed, wifi_standard FROM network_device_details WHERE asset_id=$1
	`, assetID)
	var out NetworkDeviceDetails
	err := row.Scan(&out.AssetID, &out.Ports, &out.Managed, &out.WiFiStandard)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) UpsertTeleconference(ctx context.Context, t TeleconferenceDetails) (*TeleconferenceDetails, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO teleconference_details (asset_id, camera_resolution, microphone_count, speaker_power_watts)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (asset_id)
		DO UPDATE SET camera_resolution=EXCLUDED.camera_resolution,
			microphone_count=EXCLUDED.microphone_count,
			speaker_power_watts=EXCLUDED.speaker_power_watts
		RETURNING asset_id, camera_resolution, microphone_count, speaker_power_watts
	`, t.AssetID, t.CameraResolution, t.MicrophoneCount, t.SpeakerPowerWatts)
	var out TeleconferenceDetails
	if err := row.Scan(&out.AssetID, &out.CameraResolution, &out.MicrophoneCount, &out.SpeakerPowerWatts); err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return &out, nil
}

func (r *Repo) Teleconference(ctx context.Context, assetID int64) (*TeleconferenceDetails, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT asset_id, camera_resolution, microphone_count, speaker_power_watts
		FROM teleconference_details WHERE asset_id=$1
	`, assetID)
	var out TeleconferenceDetails
	err := row.Scan(&out.AssetID, &out.CameraResolution, &out.MicrophoneCount, &out.SpeakerPowerWatts)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repo) UpsertCamera(ctx context.Context, c CameraDetails) (*CameraDetails, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO camera_details (asset_id, resolution, field_of_view)
		VALUES ($1,$2,$3)
		ON CONFLICT (asset_id)
		DO UPDATE SET resolution=EXCLUDED.resolution, field_of_view=EXCLUDED.field_of_view
		RETURNING asset_id, resolution, field_of_view
	`, c.AssetID, c.Resolution, c.FieldOfView)
	var out CameraDetails
	if err := row.Scan(&out.AssetID, &out.Resolution, &out.FieldOfView); err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return &out, nil
}

func (r *Repo) Camera(ctx context.Context, assetID int64) (*CameraDetails, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT asset_id, resolution, field_of_view FROM camera_details WHERE asset_id=$1
	`, assetID)
	var out CameraDetails
	err := row.Scan(&out.AssetID, &out.Resolution, &out.FieldOfView)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

/* Licenses */

const licenseColumns = `id, asset_id, product_name, vendor, seats, expires_on, is_active, notes`

func (r *Repo) AddLicense(ctx context.Context, l License) (*License, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO asset_licenses (asset_id, product_name, vendor, seats, expires_on, is_active, notes)
		VALUES ($1,$2,$3,$4,$5,TRUE,$6)
		RETURNING `+licenseColumns+`
	`, l.AssetID, l.ProductName, l.Vendor, l.Seats, l.ExpiresOn, l.Notes)
	var out License
	if err := row.Scan(&out.ID, &out.AssetID, &out.ProductName, &out.Vendor, &out.Seats, &out.ExpiresOn, &out.IsActive, &out.Notes); err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return &out, nil
}

func (r *Repo) Licenses(ctx context.Context, assetID int64) ([]License, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+licenseColumns+` FROM asset_licenses WHERE asset_id=$1 ORDER BY product_name, id
	`, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []License
	for rows.Next() {
		var l License
		if err := rows.Scan(&l.ID, &l.AssetID, &l.ProductName, &l.Vendor, &l.Seats, &l.ExpiresOn, &l.IsActive, &l.Notes); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
