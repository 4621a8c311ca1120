// twofa: сервис расшифровки seed и выдачи TOTP-кодов.
//
// @title        twofa API
// @version      1.0
// @description  Seed decryption and TOTP two-factor codes.
// @BasePath     /
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// cobra уже напечатал ошибку
		os.Exit(1)
	}
}
