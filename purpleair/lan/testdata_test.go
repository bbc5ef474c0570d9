package lan

// sampleJSON is trimmed from a PA-II answering GET /json.
const sampleJSON = `{
  "SensorId": "84:f3:eb:91:4a:6c",
  "DateTime": "2021/01/02T03:04:05z",
  "Geo": "PurpleAir-4a6c",
  "Mem": 19896,
  "lat": 47.6062,
  "lon": -122.3321,
  "place": "outside",
  "version": "6.01",
  "uptime": 3614,
  "rssi": -61,
  "period": 120,
  "current_temp_f": 68,
  "current_humidity": 40,
  "current_dewpoint_f": 43,
  "pressure": 1012.45,
  "p25aqic_b": "rgb(0,228,0)",
  "pm2.5_aqi_b": 44,
  "pm1_0_cf_1_b": 7.21,
  "p_0_3_um_b": 1180.35,
  "pm2_5_cf_1_b": 12.00,
  "p_0_5_um_b": 340.12,
  "pm10_0_cf_1_b": 14.56,
  "p_1_0_um_b": 70.24,
  "pm1_0_atm_b": 7.21,
  "p_2_5_um_b": 9.85,
  "pm2_5_atm_b": 11.50,
  "p_5_0_um_b": 2.10,
  "pm10_0_atm_b": 14.56,
  "p_10_0_um_b": 0.72,
  "p25aqic": "rgb(0,228,0)",
  "pm2.5_aqi": 42,
  "pm1_0_cf_1": 6.80,
  "p_0_3_um": 1200.44,
  "pm2_5_cf_1": 10.00,
  "p_0_5_um": 351.27,
  "pm10_0_cf_1": 13.92,
  "p_1_0_um": 68.03,
  "pm1_0_atm": 6.80,
  "p_2_5_um": 9.11,
  "pm2_5_atm": 9.50,
  "p_5_0_um": 1.93,
  "pm10_0_atm": 13.92,
  "p_10_0_um": 0.50,
  "pa_latency": 311,
  "response": 201,
  "response_date": 1609556640,
  "latency": 412,
  "wlstate": "Connected",
  "status_0": 2,
  "ssid": "home"
}`
