package exporter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/alepar/purpleair/purpleair"
)

const namespace = "purpleair"

// Metrics holds the gauges exposed for every sensor.
type Metrics struct {
	Temperature *prometheus.GaugeVec
	Humidity    *prometheus.GaugeVec
	DewPoint    *prometheus.GaugeVec
	Pressure    *prometheus.GaugeVec
	RSSI        *prometheus.GaugeVec
	Uptime      *prometheus.GaugeVec

	PM25AQI         *prometheus.GaugeVec // labels: sensor_id, channel
	ParticulateMass *prometheus.GaugeVec // labels: sensor_id, channel, size, type
	ParticleCount   *prometheus.GaugeVec // labels: sensor_id, channel, size

	PM25EPACorrected *prometheus.GaugeVec
	PM25AQIEPA       *prometheus.GaugeVec

	Reads *prometheus.CounterVec // labels: outcome={success,error,schema_error}
}

func newGauge(name string, help string, labels ...string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		append([]string{"sensor_id"}, labels...),
	)
}

// NewMetrics creates the exporter metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Temperature: newGauge("temperature_celsius", "Air Temperature inside the sensor housing (units: degrees Celsius)"),
		Humidity:    newGauge("humidity_percent", "Humidity inside the sensor housing (units: % of relative Humidity)"),
		DewPoint:    newGauge("dew_point_celsius", "Dew point (units: degrees Celsius)"),
		Pressure:    newGauge("pressure_mbar", "Atmospheric Pressure (units: mbar)"),
		RSSI:        newGauge("wifi_rssi_dbm", "WiFi signal strength (units: dBm)"),
		Uptime:      newGauge("uptime_seconds", "Time since the sensor booted (units: seconds)"),

		PM25AQI:         newGauge("pm2_5_aqi", "US EPA PM2.5 AQI as reported by the sensor", "channel"),
		ParticulateMass: newGauge("particulate_mass", "Particulate mass concentration (units: ug/m3)", "channel", "size", "type"),
		ParticleCount:   newGauge("particle_count", "Particle count larger than size (units: particles/dl)", "channel", "size"),

		PM25EPACorrected: newGauge("pm2_5_epa_corrected", "PM2.5 after the US EPA correction for PurpleAir (units: ug/m3)"),
		PM25AQIEPA:       newGauge("pm2_5_aqi_epa", "US EPA AQI of the corrected PM2.5 concentration"),

		Reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reads_total",
			Help:      "Sensor reads by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.Temperature,
		m.Humidity,
		m.DewPoint,
		m.Pressure,
		m.RSSI,
		m.Uptime,
		m.PM25AQI,
		m.ParticulateMass,
		m.ParticleCount,
		m.PM25EPACorrected,
		m.PM25AQIEPA,
		m.Reads,
	)
	return m
}

// Update publishes a snapshot. Values the sensor did not report are removed
// instead of keeping a stale sample around.
func (m *Metrics) Update(s purpleair.Snapshot) {
	id := s.SensorID

	m.Temperature.WithLabelValues(id).Set(s.TempC)
	m.Humidity.WithLabelValues(id).Set(float64(s.Humidity))
	m.DewPoint.WithLabelValues(id).Set(s.DewPointC)
	m.Pressure.WithLabelValues(id).Set(s.Pressure)
	m.RSSI.WithLabelValues(id).Set(float64(s.RSSI))
	m.Uptime.WithLabelValues(id).Set(float64(s.Uptime))

	for _, ch := range purpleair.Channels {
		values := s.Channel(ch)
		setOrDelete(m.PM25AQI, values.PM25AQI, id, ch.Name())

		for _, size := range purpleair.PmSizes {
			setOrDelete(m.ParticleCount, values.Count[size.String()], id, ch.Name(), size.String())
			for _, typ := range purpleair.PmTypes {
				setOrDelete(m.ParticulateMass, values.Mass(typ)[size.String()], id, ch.Name(), size.String(), typ.String())
			}
		}
	}

	setOrDelete(m.PM25EPACorrected, s.PM25EPACorrection, id)
	setOrDelete(m.PM25AQIEPA, s.PM25AQIEPA, id)
}

// Forget drops every series of a sensor, e.g. once it stops answering.
func (m *Metrics) Forget(sensorID string) {
	labels := prometheus.Labels{"sensor_id": sensorID}
	for _, vec := range []*prometheus.GaugeVec{
		m.Temperature, m.Humidity, m.DewPoint, m.Pressure, m.RSSI, m.Uptime,
		m.PM25AQI, m.ParticulateMass, m.ParticleCount, m.PM25EPACorrected, m.PM25AQIEPA,
	} {
		vec.DeletePartialMatch(labels)
	}
}

func setOrDelete(vec *prometheus.GaugeVec, v purpleair.Value, labels ...string) {
	if value, ok := v.Get(); ok {
		vec.WithLabelValues(labels...).Set(value)
		return
	}
	vec.DeleteLabelValues(labels...)
}
