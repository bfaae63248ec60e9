package options

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/provide-io/slimplayer/internal/config"
)

const title = "slimplayer - headless network audio player"

// Features lists the optional subsystems compiled into this build.
var Features = []string{"RESAMPLE", "DSD", "VISEXPORT", "IR"}

// Usage writes the help text for argv0 to w.
func Usage(w io.Writer, argv0 string) {
	fmt.Fprintf(w, "%s\n\nSee -t for license terms\n\n", title)
	fmt.Fprintf(w, "Usage: %s [options]\n", argv0)
	fmt.Fprintln(w, "  -s <server>[:<port>]\tConnect to specified server, otherwise uses autodiscovery to find server")
	fmt.Fprintln(w, "  -o <output device>\tSpecify output device, default \"default\", - = output to stdout")
	fmt.Fprintln(w, "  -l \t\t\tList output devices")
	fmt.Fprintln(w, "  -x \t\t\tDisable downsampling requests to the server")
	fmt.Fprintln(w, "  -a <params>\t\tOutput device params; with -o - the sample format (16|24|32) written to stdout")
	fmt.Fprintln(w, "  -b <stream>:<output>\tSpecify internal Stream and Output buffer sizes in Kbytes")
	fmt.Fprintf(w, "  -c <codec1>,<codec2>\tRestrict codecs to those specified, otherwise load all available codecs; known codecs: %s\n", strings.Join(config.KnownCodecs, ","))
	fmt.Fprintln(w, "  -C <timeout>\t\tClose output device when idle after timeout seconds, default is to keep it open while player is 'on'")
	fmt.Fprintln(w, "  -d <log>=<level>\tSet logging level, logs: all|slimproto|stream|decode|output|ir, level: info|debug|sdebug")
	fmt.Fprintf(w, "  -e <codec1>,<codec2>\tExplicitly exclude native support of one or more codecs; known codecs: %s\n", strings.Join(config.KnownCodecs, ","))
	fmt.Fprintln(w, "  -f <logfile>\t\tWrite debug to logfile")
	fmt.Fprintln(w, "  -i [<filename>]\tEnable lirc remote control support (lirc config file ~/.lircrc used if filename not specified)")
	fmt.Fprintln(w, "  -m <mac addr>\t\tSet mac address, format: ab:cd:ef:12:34:56")
	fmt.Fprintf(w, "  -M <modelname>\tSet the player model name sent to the server (default: %s)\n", config.DefaultModelName)
	fmt.Fprintln(w, "  -n <name>\t\tSet the player name")
	fmt.Fprintln(w, "  -N <filename>\t\tStore player name in filename to allow server defined name changes to be shared between servers (not supported with -n)")
	fmt.Fprintln(w, "  -p <priority>\t\tSet real time priority of output thread (1-99)")
	fmt.Fprintln(w, "  -P <filename>\t\tStore the process id (PID) in filename")
	fmt.Fprintln(w, "  -r <rates>[:<delay>]\tSample rates supported, rates = <maxrate>|<minrate>-<maxrate>|<rate1>,<rate2>,<rate3>; delay = optional delay switching rates in ms")
	fmt.Fprintln(w, "  -R -u [params]\tResample, params = <recipe>:<flags>:<attenuation>:<precision>:<passband_end>:<stopband_start>:<phase_response>")
	fmt.Fprintln(w, "  -D [delay][:format]\tOutput device supports DSD, delay = optional delay switching between PCM and DSD in ms")
	fmt.Fprintln(w, "  \t\t\t format = dop (default if not specified), u8, u16le, u16be, u32le, u32be, dop24 or dop24_3")
	fmt.Fprintln(w, "  -v \t\t\tVisualiser support")
	fmt.Fprintln(w, "  -L \t\t\tList volume controls for output device")
	fmt.Fprintln(w, "  -U <control>\t\tUnmute ALSA control and set to full volume (not supported with -V)")
	fmt.Fprintln(w, "  -V <control>\t\tUse ALSA control for volume adjustment, otherwise use software volume adjustment")
	fmt.Fprintln(w, "  -z \t\t\tDaemonize")
	fmt.Fprintln(w, "  -t \t\t\tLicense terms")
	fmt.Fprintln(w, "  -? \t\t\tDisplay this help text")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Build options: %s %s\n\n", strings.ToUpper(runtime.GOOS), strings.Join(Features, " "))
}

// License writes the license terms to w.
func License(w io.Writer) {
	fmt.Fprintf(w, "%s\n\n", title)
	fmt.Fprintln(w, "This program is free software: you can redistribute it and/or modify")
	fmt.Fprintln(w, "it under the terms of the GNU General Public License as published by")
	fmt.Fprintln(w, "the Free Software Foundation, either version 3 of the License, or")
	fmt.Fprintln(w, "(at your option) any later version.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "This program is distributed in the hope that it will be useful,")
	fmt.Fprintln(w, "but WITHOUT ANY WARRANTY; without even the implied warranty of")
	fmt.Fprintln(w, "MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the")
	fmt.Fprintln(w, "GNU General Public License for more details.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "You should have received a copy of the GNU General Public License")
	fmt.Fprintln(w, "along with this program.  If not, see <http://www.gnu.org/licenses/>.")
	fmt.Fprintln(w)
}
