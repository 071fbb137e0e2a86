// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "MediPlant-Go")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "mediplant.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.debug", false)
	viper.SetDefault("webserver.log.enabled", true)
	viper.SetDefault("webserver.log.path", "logs/web.log")
	viper.SetDefault("webserver.log.rotation", RotationDaily)
	viper.SetDefault("webserver.log.maxsize", 1048576)

	viper.SetDefault("output.sqlite.enabled", false)
	viper.SetDefault("output.sqlite.path", "mediplant.db")

	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "mediplant")
	viper.SetDefault("output.mysql.password", "secret")
	viper.SetDefault("output.mysql.database", "mediplant")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")

	viper.SetDefault("identify.unknownthreshold", 60.0)
	viper.SetDefault("identify.topk", 5)
	viper.SetDefault("identify.vision.enabled", false)
	viper.SetDefault("identify.vision.credentialsfile", "")
	viper.SetDefault("identify.llm.enabled", false)
	viper.SetDefault("identify.llm.model", "gpt-4o-mini")
	viper.SetDefault("identify.llm.apikey", "")
	viper.SetDefault("identify.fixture.enabled", false)

	viper.SetDefault("speech.enabled", false)
	viper.SetDefault("speech.credentialsfile", "")
	viper.SetDefault("speech.cachedir", "audio/")

	viper.SetDefault("messaging.enabled", false)
	viper.SetDefault("messaging.smsurls", []string{})
	viper.SetDefault("messaging.whatsappurls", []string{})
	viper.SetDefault("messaging.timeoutseconds", 10)

	viper.SetDefault("i18n.defaultlanguage", "en")

	viper.SetDefault("sentry.enabled", false)
	viper.SetDefault("sentry.dsn", "")

	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.listen", "0.0.0.0:8090")
}
