// Package knowledge carries the static label knowledge base: human-readable
// explanations, troubleshooting tips to try before buying anything, and
// related labels worth showing next to a diagnosis.
package knowledge

// Related is a label connected to a diagnosis, with a weight in (0,1]
// expressing how often the two co-occur.
type Related struct {
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
	Reason string  `json:"reason"`
}

var explanations = map[string]string{
	"RAM Upgrade":                "Adding more RAM helps with multitasking, reduces slowdowns, and improves performance when running multiple applications.",
	"SSD Upgrade":                "Upgrading to an SSD significantly improves boot times, application loading, and overall system responsiveness.",
	"CPU Upgrade":                "Upgrading the processor improves overall system performance, multitasking, and application speed.",
	"GPU Upgrade":                "Upgrading the graphics card improves gaming performance, video editing, and graphics-intensive applications.",
	"CPU Cooler Upgrade":         "The processor is running too hot. Better cooling prevents instability, crashes, and automatic shutdowns.",
	"GPU Cooler Upgrade":         "The graphics card is overheating under load. Better cooling prevents crashes and performance drops.",
	"Thermal Paste Reapply":      "Thermal paste between the chip and heatsink may be dried out. Reapplying it can fix overheating.",
	"Case Fan Upgrade":           "Poor case airflow raises the temperature of every component. Extra or better fans bring it down.",
	"PSU Upgrade":                "The power supply may be failing or undersized. This causes random shutdowns, boot failures, and instability.",
	"PSU / Power Issue":          "The power supply unit may be failing or insufficient. This can cause random shutdowns, boot failures, or the machine not starting at all.",
	"Power Cable Replacement":    "A damaged or loose power cable can mimic a dead power supply. Replacing it is the cheapest first step.",
	"Laptop Battery Replacement": "The battery may be dead, not holding charge, or swelling. Replacement is needed for portable use.",
	"WiFi Adapter Upgrade":       "An unstable or slow wireless connection often traces back to a weak adapter.",
	"Router Upgrade":             "When every device struggles, the router rather than the computer is the bottleneck.",
	"Monitor Replacement":        "Physical screen damage such as dead pixels or cracks cannot be repaired economically.",
	"Monitor or GPU Check":       "The monitor is not showing a usable picture. The cause is split between the display and the graphics card, so both need checking.",
	"No Display / No Signal":     "The monitor is not receiving a signal. This can be cable issues, GPU problems, or monitor failure.",
	"Display Cable Replacement":  "A damaged or loose display cable causes signal loss and flicker.",
	"Laptop Screen Repair":       "The laptop screen may be cracked or not displaying properly. This requires professional repair or replacement.",
	"Webcam Upgrade":             "The camera is not working or produces poor video. Check permissions first, then replace the webcam.",
	"Microphone Upgrade":         "Others cannot hear you properly. Check input settings first, then upgrade the microphone.",
	"Audio Issue":                "No or distorted sound usually comes from output settings, drivers, or the audio hardware.",
	"USB / Port Issue":           "A device not being recognized points at the USB port, its cable, or its drivers.",
	"USB Hub":                    "Too few USB ports is solved with a hub rather than a repair.",
	"Blue Screen (BSOD)":         "Windows encountered a critical error and had to stop. This is often caused by hardware issues, driver problems, or system corruption.",
	"Windows Boot Failure":       "The computer cannot start Windows properly. Corrupted system files, hardware issues, or boot configuration are the usual causes.",
	"OS Reinstall":               "Reinstalling Windows fixes system corruption, driver conflicts, and persistent errors.",
	"Virus / Malware Removal":    "Malware slows the machine, shows popups, and puts data at risk. A full scan and cleanup is needed.",
	"General Repair":             "The symptoms do not point at one specific component yet. A general diagnosis narrows it down.",
}

var fixingTips = map[string][]string{
	"RAM Upgrade": {
		"Check current RAM usage in Task Manager (Ctrl+Shift+Esc)",
		"Close unnecessary programs and browser tabs",
		"Run Windows Memory Diagnostic",
		"Check that RAM modules are fully seated",
		"If RAM usage is consistently above 80%, an upgrade is recommended",
	},
	"SSD Upgrade": {
		"Check disk usage in Task Manager (Disk tab)",
		"Run Disk Cleanup to free up space",
		"Disable unnecessary startup programs",
		"Check for disk errors with 'chkdsk C: /f' from an admin prompt",
		"If boot time is over a minute, an SSD upgrade is highly recommended",
	},
	"GPU Upgrade": {
		"Update graphics drivers from the manufacturer website",
		"Check GPU temperature (should stay under 80C under load)",
		"Clean GPU fans and heatsink from dust",
		"Lower in-game resolution or settings as a test",
		"If FPS is low even on low settings, an upgrade is needed",
	},
	"PSU Upgrade": {
		"Check that the power cable is properly connected",
		"Try a different power outlet",
		"Check the PSU fan; if it never spins the PSU may be dead",
		"Listen for clicking or buzzing sounds from the PSU",
		"Test with a known working PSU if available",
	},
	"PSU / Power Issue": {
		"Check that the power cable is properly connected at both ends",
		"Try a different power outlet and a different cable",
		"Hold the power button for 30 seconds with the cable unplugged, then retry",
		"Check the PSU fan and listen for clicks on power-up",
	},
	"WiFi Adapter Upgrade": {
		"Update WiFi drivers from the manufacturer website",
		"Restart the router and modem",
		"Move closer to the router to rule out signal strength",
		"Forget and reconnect to the network",
		"Check whether other devices have the same problem",
	},
	"CPU Cooler Upgrade": {
		"Check CPU temperature in BIOS or with a monitoring tool",
		"Clean the cooler and case fans from dust",
		"Reapply thermal paste if it is older than a couple of years",
		"Improve case airflow before replacing the cooler",
	},
	"Webcam Upgrade": {
		"Check camera permissions in Windows Privacy settings",
		"Check the camera selection inside the calling app",
		"Update or reinstall the camera driver",
		"Try the camera in another application to isolate the fault",
	},
	"Audio Issue": {
		"Check the output device selection in Windows sound settings",
		"Check in-app audio settings and volume",
		"Update or reinstall the audio driver",
		"Test with headphones to isolate speaker faults",
	},
	"Blue Screen (BSOD)": {
		"Note the stop code shown on the blue screen",
		"Run Windows Memory Diagnostic to rule out faulty RAM",
		"Uninstall recently added drivers or hardware",
		"Check disk health; failing storage also causes stop errors",
	},
}

var relationships = map[string][]Related{
	"GPU Cooler Upgrade": {
		{Label: "CPU Cooler Upgrade", Weight: 0.75, Reason: "Overheating symptoms look alike across both chips"},
		{Label: "Case Fan Upgrade", Weight: 0.6, Reason: "Poor case airflow heats the GPU"},
		{Label: "Thermal Paste Reapply", Weight: 0.5, Reason: "Dried paste raises temperatures"},
	},
	"CPU Cooler Upgrade": {
		{Label: "GPU Cooler Upgrade", Weight: 0.75, Reason: "Overheating symptoms look alike across both chips"},
		{Label: "Thermal Paste Reapply", Weight: 0.65, Reason: "Dried paste raises temperatures"},
		{Label: "Case Fan Upgrade", Weight: 0.6, Reason: "Poor case airflow heats the CPU"},
	},
	"Blue Screen (BSOD)": {
		{Label: "Windows Boot Failure", Weight: 0.7, Reason: "Both are Windows system errors"},
		{Label: "RAM Upgrade", Weight: 0.6, Reason: "Stop errors are often caused by faulty RAM"},
		{Label: "OS Reinstall", Weight: 0.5, Reason: "Reinstalling the OS can clear persistent stop errors"},
	},
	"Windows Boot Failure": {
		{Label: "Blue Screen (BSOD)", Weight: 0.7, Reason: "Both are Windows system errors"},
		{Label: "OS Reinstall", Weight: 0.65, Reason: "Reinstalling the OS fixes many boot problems"},
		{Label: "PSU / Power Issue", Weight: 0.6, Reason: "Power faults can prevent booting"},
		{Label: "SSD Upgrade", Weight: 0.5, Reason: "Boot failure can be storage-related"},
	},
	"PSU / Power Issue": {
		{Label: "Windows Boot Failure", Weight: 0.7, Reason: "Power faults prevent booting"},
		{Label: "No Display / No Signal", Weight: 0.65, Reason: "Power faults can cause display problems"},
		{Label: "Power Cable Replacement", Weight: 0.6, Reason: "A bad cable mimics a dead supply"},
		{Label: "PSU Upgrade", Weight: 0.55, Reason: "A failing supply needs replacement"},
	},
	"No Display / No Signal": {
		{Label: "PSU / Power Issue", Weight: 0.7, Reason: "Power faults often cause no display"},
		{Label: "Monitor or GPU Check", Weight: 0.65, Reason: "The fault splits between monitor and GPU"},
		{Label: "Display Cable Replacement", Weight: 0.6, Reason: "A bad cable causes signal loss"},
		{Label: "Laptop Screen Repair", Weight: 0.55, Reason: "A dead panel shows as no display"},
	},
	"SSD Upgrade": {
		{Label: "RAM Upgrade", Weight: 0.6, Reason: "Both lift overall system performance"},
		{Label: "Windows Boot Failure", Weight: 0.5, Reason: "A new drive fixes slow or failing boots"},
		{Label: "OS Reinstall", Weight: 0.4, Reason: "A drive swap is usually paired with a fresh install"},
	},
	"RAM Upgrade": {
		{Label: "SSD Upgrade", Weight: 0.6, Reason: "Both lift overall system performance"},
		{Label: "Blue Screen (BSOD)", Weight: 0.55, Reason: "Faulty RAM frequently causes stop errors"},
		{Label: "CPU Upgrade", Weight: 0.45, Reason: "Sustained slowness may also be CPU-bound"},
	},
	"WiFi Adapter Upgrade": {
		{Label: "Router Upgrade", Weight: 0.65, Reason: "Connection faults often sit on the router side"},
		{Label: "Ethernet Adapter Replacement", Weight: 0.45, Reason: "A wired link sidesteps wireless trouble"},
	},
	"Webcam Upgrade": {
		{Label: "Microphone Upgrade", Weight: 0.55, Reason: "Call problems often involve both devices"},
		{Label: "USB / Port Issue", Weight: 0.45, Reason: "External cameras fail with their port"},
	},
	"Audio Issue": {
		{Label: "Microphone Upgrade", Weight: 0.55, Reason: "Input and output faults overlap on calls"},
	},
}

// Explanation returns the human-readable explanation for a label.
func Explanation(label string) (string, bool) {
	text, ok := explanations[label]
	return text, ok
}

// FixingTips returns troubleshooting steps to try before committing to the
// diagnosis. Labels without tips return nil.
func FixingTips(label string) []string {
	return fixingTips[label]
}

// RelatedTo returns labels related to a diagnosis. An uncertain diagnosis
// gets up to five suggestions; a confident one gets three, since the extra
// candidates only matter when the primary might be wrong.
func RelatedTo(label string, confidence float64) []Related {
	related := relationships[label]
	limit := 3
	if confidence < 0.5 {
		limit = 5
	}
	if len(related) > limit {
		related = related[:limit]
	}
	return related
}
