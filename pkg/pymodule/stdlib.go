package pymodule

// stdlibNames mirrors Python's sys.stdlib_module_names (union of the
// public names across supported 3.x versions). Only the top-level
// component of an import is tested against this set.
var stdlibNames = map[string]struct{}{}

func init() {
	for _, name := range []string{
		"__future__",
		"abc", "aifc", "argparse", "array", "ast", "asyncio", "atexit",
		"audioop", "base64", "bdb", "binascii", "bisect", "builtins",
		"bz2", "calendar", "cgi", "cgitb", "chunk", "cmath", "cmd",
		"code", "codecs", "codeop", "collections", "colorsys",
		"compileall", "concurrent", "configparser", "contextlib",
		"contextvars", "copy", "copyreg", "cProfile", "crypt", "csv",
		"ctypes", "curses", "dataclasses", "datetime", "dbm", "decimal",
		"difflib", "dis", "doctest", "email", "encodings", "ensurepip",
		"enum", "errno", "faulthandler", "fcntl", "filecmp", "fileinput",
		"fnmatch", "fractions", "ftplib", "functools", "gc", "getopt",
		"getpass", "gettext", "glob", "graphlib", "grp", "gzip",
		"hashlib", "heapq", "hmac", "html", "http", "imaplib", "imghdr",
		"importlib", "inspect", "io", "ipaddress", "itertools", "json",
		"keyword", "linecache", "locale", "logging", "lzma", "mailbox",
		"mailcap", "marshal", "math", "mimetypes", "mmap",
		"modulefinder", "msvcrt", "multiprocessing", "netrc", "nntplib",
		"ntpath", "numbers", "operator", "optparse", "os",
		"ossaudiodev", "pathlib", "pdb", "pickle", "pickletools",
		"pipes", "pkgutil", "platform", "plistlib", "poplib", "posix",
		"posixpath", "pprint", "profile", "pstats", "pty", "pwd",
		"py_compile", "pyclbr", "pydoc", "pyexpat", "queue", "quopri",
		"random", "re", "readline", "reprlib", "resource", "rlcompleter",
		"runpy", "sched", "secrets", "select", "selectors", "shelve",
		"shlex", "shutil", "signal", "site", "smtplib", "sndhdr",
		"socket", "socketserver", "spwd", "sqlite3", "ssl", "stat",
		"statistics", "string", "stringprep", "struct", "subprocess",
		"sunau", "symtable", "sys", "sysconfig", "syslog", "tabnanny",
		"tarfile", "telnetlib", "tempfile", "termios", "textwrap",
		"this", "threading", "time", "timeit", "tkinter", "token",
		"tokenize", "tomllib", "trace", "traceback", "tracemalloc",
		"tty", "turtle", "turtledemo", "types", "typing", "unicodedata",
		"unittest", "urllib", "uu", "uuid", "venv", "warnings", "wave",
		"weakref", "webbrowser", "winreg", "winsound", "wsgiref",
		"xdrlib", "xml", "xmlrpc", "zipapp", "zipfile", "zipimport",
		"zlib", "zoneinfo",
	} {
		stdlibNames[name] = struct{}{}
	}
}

// IsStdlib reports whether name is a Python standard-library or builtin
// top-level module name.
func IsStdlib(name string) bool {
	_, ok := stdlibNames[name]
	return ok
}
