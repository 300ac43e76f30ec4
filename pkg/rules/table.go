package rules

// builtinRules is the static, versioned rule table compiled into the
// process. Order is load-bearing: the matcher walks it linearly and the
// first satisfied rule wins, so high-precision rules come before broad ones
// (application-specific audio rules before generic camera rules, combined
// display+power symptoms before plain display symptoms, and so on).
var builtinRules = []Rule{
	// Short power complaints.
	{
		Keywords:    []string{"no power"},
		Label:       "PSU / Power Issue",
		Confidence:  0.95,
		Explanation: "No power usually means PSU failure.",
		Related:     []string{"PSU Upgrade", "Power Cable Replacement"},
	},
	{
		Keywords:    []string{"pc not start"},
		Label:       "PSU / Power Issue",
		Confidence:  0.94,
		Explanation: "PC not starting could be PSU or power cable issue.",
		Related:     []string{"PSU Upgrade", "Power Cable Replacement"},
	},
	{
		Keywords:    []string{"won't turn on"},
		Label:       "PSU / Power Issue",
		Confidence:  0.94,
		Explanation: "Complete power failure usually indicates a dead power supply unit.",
		Related:     []string{"PSU Upgrade", "Power Cable Replacement"},
	},
	{
		Keywords:    []string{"pc shuts down instantly"},
		Label:       "PSU Upgrade",
		Confidence:  0.96,
		Explanation: "Instant shutdowns are typically caused by power supply failure. The PSU cannot provide stable power to components.",
	},
	{
		Keywords:    []string{"random shutdown"},
		Label:       "PSU Upgrade",
		Confidence:  0.94,
		Explanation: "Random shutdowns often indicate insufficient or failing power supply. Upgrade to a higher wattage PSU.",
		Related:     []string{"CPU Cooler Upgrade"},
	},

	// Display combined with power symptoms.
	{
		Keywords:    []string{"no display", "fans spinning"},
		Label:       "Monitor or GPU Check",
		Confidence:  0.95,
		Explanation: "No display with fans spinning typically indicates a GPU or monitor issue. Check GPU connections and monitor cables first.",
		Related:     []string{"Display Cable Replacement"},
	},
	{
		Keywords:    []string{"black screen", "fans working"},
		Label:       "Monitor or GPU Check",
		Confidence:  0.95,
		Explanation: "Black screen with working fans suggests a display or GPU problem. Verify monitor connections and GPU seating.",
	},
	{
		Keywords:    []string{"no signal"},
		Label:       "No Display / No Signal",
		Confidence:  0.9,
		Explanation: "No signal points at the GPU, the display cable, or the monitor itself.",
		Related:     []string{"Monitor or GPU Check", "Display Cable Replacement"},
	},
	{
		Keywords:    []string{"dead pixels"},
		Label:       "Monitor Replacement",
		Confidence:  0.95,
		Explanation: "Physical screen damage requires monitor replacement.",
	},
	{
		Keywords:    []string{"cracked screen"},
		Label:       "Monitor Replacement",
		Confidence:  0.95,
		Explanation: "Physical screen damage requires monitor replacement.",
		Related:     []string{"Laptop Screen Repair"},
	},
	{
		Keywords:    []string{"flickering"},
		Label:       "Monitor or GPU Check",
		Confidence:  0.92,
		Explanation: "Screen flickering or artifacts can indicate GPU issues or monitor problems. Check both components.",
	},

	// Performance: memory.
	{
		Keywords:    []string{"tabs closing"},
		Label:       "RAM Upgrade",
		Confidence:  0.93,
		Explanation: "Browser tabs closing automatically indicates insufficient RAM. Upgrade RAM for better multitasking.",
	},
	{
		Keywords:    []string{"out of memory"},
		Label:       "RAM Upgrade",
		Confidence:  0.93,
		Explanation: "Memory errors suggest RAM capacity issues. Add more RAM.",
	},
	{
		Keywords:    []string{"slow", "multitasking"},
		Label:       "RAM Upgrade",
		Confidence:  0.92,
		Explanation: "Slow performance with multiple programs typically indicates insufficient RAM. Upgrade RAM for better multitasking.",
		Related:     []string{"SSD Upgrade", "CPU Upgrade"},
	},
	{
		Keywords:    []string{"photoshop", "slow"},
		Label:       "RAM Upgrade",
		Confidence:  0.9,
		Explanation: "Photoshop slow performance typically needs more RAM. Check RAM usage during Photoshop.",
	},

	// Performance: storage.
	{
		Keywords:    []string{"slow boot"},
		Label:       "SSD Upgrade",
		Confidence:  0.91,
		Explanation: "Slow boot times are often caused by an old HDD. Upgrade to SSD for significantly faster startup.",
		Related:     []string{"RAM Upgrade"},
	},
	{
		Keywords:    []string{"disk 100%"},
		Label:       "SSD Upgrade",
		Confidence:  0.9,
		Explanation: "High disk usage indicates a storage bottleneck. Upgrade to SSD for better performance.",
		Related:     []string{"RAM Upgrade"},
	},
	{
		Keywords:    []string{"games", "long to load"},
		Label:       "SSD Upgrade",
		Confidence:  0.91,
		Explanation: "Games taking long to load indicates slow storage. Upgrade to SSD for faster loading times.",
	},

	// Performance: graphics.
	{
		Keywords:    []string{"low fps"},
		Label:       "GPU Upgrade",
		Confidence:  0.92,
		Explanation: "Low FPS typically indicates insufficient GPU power. Upgrade your graphics card.",
		Related:     []string{"CPU Upgrade", "RAM Upgrade"},
	},
	{
		Keywords:    []string{"gaming lag"},
		Label:       "GPU Upgrade",
		Confidence:  0.92,
		Explanation: "Gaming lag typically indicates insufficient GPU power. Upgrade your graphics card.",
		Related:     []string{"CPU Upgrade"},
	},
	{
		Keywords:    []string{"frame drops"},
		Label:       "GPU Upgrade",
		Confidence:  0.92,
		Explanation: "Frame drops typically indicate insufficient GPU power. Upgrade your graphics card.",
	},

	// Generic slowness comes after the specific performance rules.
	{
		Keywords:    []string{"pc slow"},
		Label:       "RAM Upgrade",
		Confidence:  0.9,
		Explanation: "Slow PC often needs RAM or SSD upgrade.",
		Related:     []string{"SSD Upgrade", "CPU Upgrade"},
	},
	{
		Keywords:    []string{"computer slow"},
		Label:       "RAM Upgrade",
		Confidence:  0.9,
		Explanation: "Slow computer usually needs RAM or SSD upgrade.",
		Related:     []string{"SSD Upgrade"},
	},

	// Thermals.
	{
		Keywords:    []string{"thermal paste"},
		Label:       "Thermal Paste Reapply",
		Confidence:  0.93,
		Explanation: "High CPU temperatures often indicate dried or improperly applied thermal paste. Reapply thermal paste.",
	},
	{
		Keywords:    []string{"cpu", "overheat"},
		Label:       "CPU Cooler Upgrade",
		Confidence:  0.9,
		Explanation: "CPU overheating requires better cooling. Upgrade CPU cooler and ensure proper thermal paste application.",
		Related:     []string{"Thermal Paste Reapply", "Case Fan Upgrade"},
	},
	{
		Keywords:    []string{"gpu", "overheat"},
		Label:       "GPU Cooler Upgrade",
		Confidence:  0.9,
		Explanation: "GPU overheating requires better cooling. Check GPU fans and consider upgrading GPU cooler.",
		Related:     []string{"Case Fan Upgrade"},
	},
	{
		Keywords:    []string{"overheating"},
		Label:       "CPU Cooler Upgrade",
		Confidence:  0.9,
		Explanation: "Overheating issues require better cooling. Upgrade CPU cooler and ensure proper thermal paste application.",
		Related:     []string{"Case Fan Upgrade", "Thermal Paste Reapply"},
	},

	// Network.
	{
		Keywords:    []string{"wifi disconnects"},
		Label:       "WiFi Adapter Upgrade",
		Confidence:  0.91,
		Explanation: "Unstable WiFi connections suggest adapter issues. Upgrade to a better WiFi adapter.",
		Related:     []string{"Router Upgrade"},
	},
	{
		Keywords:    []string{"no internet"},
		Label:       "WiFi Adapter Upgrade",
		Confidence:  0.92,
		Explanation: "No internet could be WiFi adapter or router issue.",
		Related:     []string{"Router Upgrade"},
	},
	{
		Keywords:    []string{"buffering"},
		Label:       "WiFi Adapter Upgrade",
		Confidence:  0.91,
		Explanation: "Streaming buffering indicates a network issue. Upgrade WiFi adapter for better connection.",
		Related:     []string{"Router Upgrade"},
	},

	// Battery and USB.
	{
		Keywords:    []string{"battery not charging"},
		Label:       "Laptop Battery Replacement",
		Confidence:  0.93,
		Explanation: "Laptop battery issues require battery replacement. Check if battery is swollen or not holding charge.",
	},
	{
		Keywords:    []string{"need more usb"},
		Label:       "USB Hub",
		Confidence:  0.88,
		Explanation: "Insufficient USB ports can be solved with a USB hub. Connect multiple devices simultaneously.",
	},
	{
		Keywords:    []string{"usb", "not recognized"},
		Label:       "USB / Port Issue",
		Confidence:  0.85,
		Explanation: "A device not being recognized points at the USB port or its drivers.",
	},

	// Application audio rules come before the broad camera rules: "zoom no
	// sound" must not resolve to a webcam problem.
	{
		Keywords:    []string{"zoom", "no sound"},
		Label:       "Audio Issue",
		Confidence:  0.93,
		Explanation: "Zoom no sound is an audio issue. Check audio settings in Zoom and Windows.",
	},
	{
		Keywords:    []string{"teams", "no sound"},
		Label:       "Audio Issue",
		Confidence:  0.93,
		Explanation: "Teams no sound is an audio issue. Check audio settings in Teams and Windows.",
	},
	{
		Keywords:    []string{"zoom", "mic"},
		Label:       "Microphone Upgrade",
		Confidence:  0.92,
		Explanation: "Zoom microphone issues may require microphone upgrade. Check mic settings and permissions.",
	},
	{
		Keywords:    []string{"can't hear me"},
		Label:       "Microphone Upgrade",
		Confidence:  0.91,
		Explanation: "People can't hear you indicates microphone problem. Check mic settings and hardware.",
	},

	// Camera and video-call rules.
	{
		Keywords:    []string{"camera not working"},
		Label:       "Webcam Upgrade",
		Confidence:  0.95,
		Explanation: "Camera not working requires webcam upgrade or repair. Check if it's a built-in laptop camera or external webcam.",
	},
	{
		Keywords:    []string{"webcam not working"},
		Label:       "Webcam Upgrade",
		Confidence:  0.95,
		Explanation: "Webcam not working requires webcam upgrade or repair.",
	},
	{
		Keywords:    []string{"camera not detected"},
		Label:       "Webcam Upgrade",
		Confidence:  0.94,
		Explanation: "Camera not being detected suggests hardware or driver issue. May need webcam upgrade or driver update.",
	},
	{
		Keywords:    []string{"zoom", "camera"},
		Label:       "Webcam Upgrade",
		Confidence:  0.95,
		Explanation: "Zoom camera issues are webcam problems. Check webcam settings in Zoom and Windows Privacy settings.",
	},
	{
		Keywords:    []string{"zoom"},
		Label:       "Webcam Upgrade",
		Confidence:  0.9,
		Explanation: "Zoom issues are usually webcam problems. Check webcam settings in Zoom and Windows Privacy settings.",
	},
	{
		Keywords:    []string{"teams", "camera"},
		Label:       "Webcam Upgrade",
		Confidence:  0.94,
		Explanation: "Teams camera not working is a webcam issue. Check webcam settings in Teams and Windows.",
	},
	{
		Keywords:    []string{"video call"},
		Label:       "Webcam Upgrade",
		Confidence:  0.91,
		Explanation: "Video call issues are usually webcam problems. Check webcam settings and permissions.",
	},

	// Windows-level failures.
	{
		Keywords:    []string{"blue screen"},
		Label:       "Blue Screen (BSOD)",
		Confidence:  0.9,
		Explanation: "Blue screens are often caused by faulty RAM, drivers, or a corrupted OS.",
		Related:     []string{"RAM Upgrade", "OS Reinstall"},
	},
	{
		Keywords:    []string{"bsod"},
		Label:       "Blue Screen (BSOD)",
		Confidence:  0.9,
		Explanation: "Blue screens are often caused by faulty RAM, drivers, or a corrupted OS.",
		Related:     []string{"RAM Upgrade", "OS Reinstall"},
	},
	{
		Keywords:    []string{"boot", "failure"},
		Label:       "Windows Boot Failure",
		Confidence:  0.85,
		Explanation: "Boot failures can be caused by a corrupted OS or failing storage.",
		Related:     []string{"OS Reinstall", "SSD Upgrade"},
	},
	{
		Keywords:    []string{"virus"},
		Label:       "Virus / Malware Removal",
		Confidence:  0.88,
		Explanation: "Malware infections are removed with a scan and, in severe cases, an OS reinstall.",
		Related:     []string{"OS Reinstall"},
	},
}
