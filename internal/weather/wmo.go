package weather

// DescribeCode maps a WMO weather interpretation code to a human-readable
// description. Total: unrecognized codes map to "Unknown".
func DescribeCode(code int) string {
	switch code {
	case 0:
		return "Clear sky"
	case 1:
		return "Mainly clear"
	case 2:
		return "Partly cloudy"
	case 3:
		return "Overcast"
	case 45:
		return "Fog"
	case 48:
		return "Depositing rime fog"
	case 51:
		return "Light drizzle"
	case 53:
		return "Moderate drizzle"
	case 55:
		return "Dense drizzle"
	case 56:
		return "Light freezing drizzle"
	case 57:
		return "Dense freezing drizzle"
	case 61:
		return "Slight rain"
	case 63:
		return "Moderate rain"
	case 65:
		return "Heavy rain"
	case 66:
		return "Light freezing rain"
	case 67:
		return "Heavy freezing rain"
	case 71:
		return "Slight snow fall"
	case 73:
		return "Moderate snow fall"
	case 75:
		return "Heavy snow fall"
	case 77:
		return "Snow grains"
	case 80:
		return "Slight rain showers"
	case 81:
		return "Moderate rain showers"
	case 82:
		return "Violent rain showers"
	case 85:
		return "Slight snow showers"
	case 86:
		return "Heavy snow showers"
	case 95:
		return "Thunderstorm"
	case 96:
		return "Thunderstorm with slight hail"
	case 99:
		return "Thunderstorm with heavy hail"
	default:
		return "Unknown"
	}
}

// IconForCode buckets a WMO code into one of seven icon identifiers.
// Unrecognized codes fall back to the clear-sky icon.
func IconForCode(code int) string {
	switch {
	case code == 0:
		return "01d" // clear
	case code >= 1 && code <= 3:
		return "02d" // partly cloudy
	case code == 45 || code == 48:
		return "50d" // fog
	case code >= 51 && code <= 67:
		return "10d" // drizzle and rain
	case code >= 71 && code <= 77:
		return "13d" // snow
	case code >= 80 && code <= 82:
		return "09d" // rain showers
	case code == 85 || code == 86:
		return "13d" // snow showers
	case code >= 95 && code <= 99:
		return "11d" // thunderstorm
	default:
		return "01d"
	}
}
