// Package pools содержит чистую логику распределения участников по пулам
// и websocket-хаб для живых обновлений сетки события.
package pools

import "github.com/openbracket/openbracket/models"

// SnakeSeed раскладывает участников по poolCount пулам змейкой: чётные
// раунды идут слева направо, нечётные — справа налево, поэтому средняя сила
// посева по пулам выравнивается. Вход считается уже отсортированным по
// посеву (лучший первым).
//
// Функция чистая и детерминированная; результат нигде не сохраняется и
// пересчитывается заново на каждый запрос. Пустые пулы допустимы.
func SnakeSeed(entrants []models.Entrant, poolCount int) [][]models.Entrant {
	if poolCount < 1 {
		return nil
	}

	result := make([][]models.Entrant, poolCount)
	for i := range result {
		result[i] = make([]models.Entrant, 0)
	}

	for i, entrant := range entrants {
		round := i / poolCount
		posInRound := i % poolCount
		poolIndex := posInRound
		if round%2 != 0 {
			poolIndex = poolCount - 1 - posInRound
		}
		result[poolIndex] = append(result[poolIndex], entrant)
	}

	return result
}
